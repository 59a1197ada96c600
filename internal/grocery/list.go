// Package grocery aggregates plan ingredients into shopping lists and
// subtracts pantry stock from them.
package grocery

import (
	"github.com/NoMooncake/meal-planner/internal/units"
)

// Item is one shopping list line in canonical units.
type Item struct {
	Name        string
	Unit        units.Unit
	TotalAmount float64
}

// ShoppingList is an ordered list of items to buy. Order is the order in
// which each (name, unit) identity was first needed, which keeps repeated
// runs over the same plan stable.
type ShoppingList struct {
	Items []Item
}

// Empty reports whether there is nothing to buy.
func (l ShoppingList) Empty() bool {
	return len(l.Items) == 0
}

// Len returns the number of distinct items on the list.
func (l ShoppingList) Len() int {
	return len(l.Items)
}
