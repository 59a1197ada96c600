package grocery

import (
	"github.com/NoMooncake/meal-planner/internal/recipe"
)

// ListBuilder accumulates ingredient totals across recipes. Amounts are
// converted to canonical units before merging, so 1 KG and 500 G of the same
// ingredient end up as a single 1500 G line. Identities keep the order in
// which they were first added.
type ListBuilder struct {
	totals map[recipe.Identity]float64
	order  []recipe.Identity
}

// NewListBuilder returns an empty builder.
func NewListBuilder() *ListBuilder {
	return &ListBuilder{totals: make(map[recipe.Identity]float64)}
}

// AddRecipe merges every ingredient of r into the running totals and returns
// the builder for chaining.
func (b *ListBuilder) AddRecipe(r recipe.Recipe) *ListBuilder {
	for _, ing := range r.Ingredients {
		b.add(ing)
	}
	return b
}

// AddRecipes merges a batch of recipes in order.
func (b *ListBuilder) AddRecipes(recipes []recipe.Recipe) *ListBuilder {
	for _, r := range recipes {
		b.AddRecipe(r)
	}
	return b
}

func (b *ListBuilder) add(ing recipe.Ingredient) {
	key, amount := ing.Canonical()
	if _, seen := b.totals[key]; !seen {
		b.order = append(b.order, key)
	}
	b.totals[key] += amount
}

// Build snapshots the current totals into a shopping list. The builder stays
// usable afterwards; further recipes keep accumulating.
func (b *ListBuilder) Build() ShoppingList {
	items := make([]Item, 0, len(b.order))
	for _, key := range b.order {
		items = append(items, Item{
			Name:        key.Name,
			Unit:        key.Unit,
			TotalAmount: b.totals[key],
		})
	}
	return ShoppingList{Items: items}
}
