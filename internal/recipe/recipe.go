// Package recipe defines the core meal-planning domain model: ingredients,
// recipes and the recipe catalog.
package recipe

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/NoMooncake/meal-planner/internal/units"
)

// Validation failures share these sentinels so callers can branch with
// errors.Is regardless of the wrapping message.
var (
	ErrBlankName     = errors.New("name must not be blank")
	ErrInvalidUnit   = errors.New("unit is not supported")
	ErrInvalidAmount = errors.New("amount must be a finite number >= 0")
)

// Normalize applies the name normalization used for ingredient identity:
// surrounding whitespace is trimmed and the result is lowercased, so
// " Milk " and "milk" refer to the same ingredient.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Identity is the composite key under which ingredient occurrences merge:
// the normalized name plus the unit. The amount is deliberately excluded so
// that occurrences with different quantities can be summed.
type Identity struct {
	Name string
	Unit units.Unit
}

func (id Identity) String() string {
	return id.Name + " [" + string(id.Unit) + "]"
}

// Ingredient is one quantified ingredient line, e.g. 150 G of rice.
// The name is normalized at construction; treat values as read-only.
type Ingredient struct {
	Name   string
	Amount float64
	Unit   units.Unit
}

// NewIngredient validates and normalizes an ingredient line.
func NewIngredient(name string, amount float64, unit units.Unit) (Ingredient, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return Ingredient{}, fmt.Errorf("ingredient: %w", ErrBlankName)
	}
	if !unit.Valid() {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w: %q", normalized, ErrInvalidUnit, unit)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w: got %v", normalized, ErrInvalidAmount, amount)
	}
	return Ingredient{Name: normalized, Amount: amount, Unit: unit}, nil
}

// Identity returns the merge key of the ingredient as written, without
// converting the unit.
func (i Ingredient) Identity() Identity {
	return Identity{Name: i.Name, Unit: i.Unit}
}

// Canonical returns the merge key in the canonical unit of the ingredient's
// family together with the converted amount, so 2 KG of rice and 500 G of
// rice land under the same key.
func (i Ingredient) Canonical() (Identity, float64) {
	return Identity{Name: i.Name, Unit: units.Canonical(i.Unit)},
		units.ToCanonical(i.Amount, i.Unit)
}

func (i Ingredient) String() string {
	return fmt.Sprintf("%s %v %s", i.Name, i.Amount, i.Unit)
}

// Recipe is a named list of ingredients. The ingredient slice is copied at
// construction and must not be mutated afterwards; plans hold references to
// catalog recipes rather than copies.
type Recipe struct {
	Name        string
	Ingredients []Ingredient
}

// NewRecipe validates the recipe name and takes its own copy of the
// ingredient list. An empty ingredient list is allowed.
func NewRecipe(name string, ingredients []Ingredient) (Recipe, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Recipe{}, fmt.Errorf("recipe: %w", ErrBlankName)
	}
	copied := make([]Ingredient, len(ingredients))
	copy(copied, ingredients)
	return Recipe{Name: trimmed, Ingredients: copied}, nil
}

func (r Recipe) String() string {
	return fmt.Sprintf("%s (%d ingredients)", r.Name, len(r.Ingredients))
}

// CanonicalTotals aggregates the recipe's ingredients by canonical identity.
// A recipe listing the same ingredient twice needs the summed amount, which
// matters when checking the recipe against available stock.
func (r Recipe) CanonicalTotals() map[Identity]float64 {
	totals := make(map[Identity]float64, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		key, amount := ing.Canonical()
		totals[key] += amount
	}
	return totals
}
