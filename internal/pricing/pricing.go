// Package pricing estimates recipe costs from a per-unit price book.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/units"
)

var ErrInvalidPrice = errors.New("price must be a finite number >= 0")

// Book maps canonical ingredient identities to a price per canonical unit
// (per piece, per gram, per milliliter). Read methods tolerate a nil book
// and behave like an empty one.
type Book struct {
	prices map[recipe.Identity]float64
}

// NewBook returns an empty price book.
func NewBook() *Book {
	return &Book{prices: make(map[recipe.Identity]float64)}
}

// Set records the price of one unit of the ingredient. The price is
// normalized to the canonical unit, so Set("rice", KG, 5) stores 0.005 per
// gram. Later calls overwrite earlier ones.
func (b *Book) Set(name string, unit units.Unit, pricePerUnit float64) error {
	if math.IsNaN(pricePerUnit) || math.IsInf(pricePerUnit, 0) || pricePerUnit < 0 {
		return fmt.Errorf("price for %q: %w: got %v", name, ErrInvalidPrice, pricePerUnit)
	}
	// Reuse ingredient validation for the name and unit.
	ing, err := recipe.NewIngredient(name, 0, unit)
	if err != nil {
		return fmt.Errorf("price book: %w", err)
	}
	key, _ := ing.Canonical()
	b.prices[key] = pricePerUnit / units.ToCanonical(1, unit)
	return nil
}

// UnitPrice returns the price of one canonical unit of the ingredient and
// whether the book knows it at all.
func (b *Book) UnitPrice(name string, unit units.Unit) (float64, bool) {
	if b == nil {
		return 0, false
	}
	key := recipe.Identity{Name: recipe.Normalize(name), Unit: units.Canonical(unit)}
	price, ok := b.prices[key]
	return price, ok
}

// CostOf prices a single ingredient line: canonical amount times unit price.
// ok is false when the ingredient is not in the book.
func (b *Book) CostOf(ing recipe.Ingredient) (float64, bool) {
	if b == nil {
		return 0, false
	}
	key, amount := ing.Canonical()
	price, ok := b.prices[key]
	if !ok {
		return 0, false
	}
	return amount * price, true
}

// EstimateCost sums the cost of every priced ingredient in the recipe.
// Ingredients missing from the book contribute nothing, so the estimate is
// a lower bound when coverage is partial.
func (b *Book) EstimateCost(r recipe.Recipe) float64 {
	total := 0.0
	for _, ing := range r.Ingredients {
		if cost, ok := b.CostOf(ing); ok {
			total += cost
		}
	}
	return total
}

// Len returns the number of priced identities.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.prices)
}

// SampleBook returns the built-in demo price book covering the sample
// catalog plus common Asian pantry staples.
func SampleBook() *Book {
	b := NewBook()
	entries := []struct {
		name  string
		unit  units.Unit
		price float64
	}{
		{"egg", units.PCS, 0.30},
		{"chicken", units.G, 0.020},
		{"pork", units.G, 0.018},
		{"shrimp", units.G, 0.045},
		{"tofu", units.G, 0.008},
		{"milk", units.ML, 0.002},
		{"rice", units.G, 0.005},
		{"pasta", units.G, 0.012},
		{"noodles", units.G, 0.010},
		{"cornstarch", units.G, 0.006},
		{"sugar", units.G, 0.004},
		{"lettuce", units.G, 0.010},
		{"broccoli", units.G, 0.008},
		{"bell pepper", units.G, 0.012},
		{"carrot", units.G, 0.005},
		{"onion", units.G, 0.004},
		{"bok choy", units.G, 0.007},
		{"garlic", units.G, 0.015},
		{"ginger", units.G, 0.020},
		{"scallion", units.PCS, 0.25},
		{"oil", units.ML, 0.008},
		{"olive oil", units.ML, 0.025},
		{"sesame oil", units.ML, 0.030},
		{"chili oil", units.ML, 0.035},
		{"soy sauce", units.ML, 0.010},
		{"sriracha", units.ML, 0.015},
		{"rice vinegar", units.ML, 0.012},
		{"sesame seeds", units.G, 0.025},
	}
	for _, e := range entries {
		if err := b.Set(e.name, e.unit, e.price); err != nil {
			panic(err)
		}
	}
	return b
}
