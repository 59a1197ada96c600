package recipe

import (
	"errors"
	"testing"

	"github.com/NoMooncake/meal-planner/internal/units"
)

func TestNewIngredientNormalizesName(t *testing.T) {
	ing, err := NewIngredient("  Olive Oil ", 10, units.ML)
	if err != nil {
		t.Fatalf("NewIngredient returned error: %v", err)
	}
	if ing.Name != "olive oil" {
		t.Errorf("expected normalized name %q, got %q", "olive oil", ing.Name)
	}
	if ing.Amount != 10 || ing.Unit != units.ML {
		t.Errorf("unexpected ingredient: %+v", ing)
	}
}

func TestNewIngredientValidation(t *testing.T) {
	cases := []struct {
		name    string
		inName  string
		amount  float64
		unit    units.Unit
		wantErr error
	}{
		{"blank name", "   ", 1, units.G, ErrBlankName},
		{"empty name", "", 1, units.G, ErrBlankName},
		{"bad unit", "rice", 1, units.Unit("CUPS"), ErrInvalidUnit},
		{"negative amount", "rice", -1, units.G, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewIngredient(tc.inName, tc.amount, tc.unit)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("NewIngredient(%q, %v, %s) error = %v, want %v",
					tc.inName, tc.amount, tc.unit, err, tc.wantErr)
			}
		})
	}
}

func TestNewIngredientAllowsZeroAmount(t *testing.T) {
	if _, err := NewIngredient("salt", 0, units.G); err != nil {
		t.Fatalf("zero amount should be valid: %v", err)
	}
}

func TestIngredientIdentityIgnoresAmount(t *testing.T) {
	a, _ := NewIngredient("Milk", 50, units.ML)
	b, _ := NewIngredient("milk ", 980, units.ML)
	if a.Identity() != b.Identity() {
		t.Errorf("identities differ: %v vs %v", a.Identity(), b.Identity())
	}

	c, _ := NewIngredient("milk", 50, units.L)
	if a.Identity() == c.Identity() {
		t.Error("different units must yield different identities")
	}
}

func TestIngredientCanonical(t *testing.T) {
	ing, _ := NewIngredient("rice", 2, units.KG)
	key, amount := ing.Canonical()
	if key != (Identity{Name: "rice", Unit: units.G}) {
		t.Errorf("unexpected canonical key: %v", key)
	}
	if amount != 2000 {
		t.Errorf("expected 2000 G, got %v", amount)
	}
}

func TestNewRecipeRejectsBlankName(t *testing.T) {
	if _, err := NewRecipe("  ", nil); !errors.Is(err, ErrBlankName) {
		t.Errorf("expected ErrBlankName, got %v", err)
	}
}

func TestNewRecipeCopiesIngredients(t *testing.T) {
	ings := []Ingredient{mustIngredient("egg", 2, units.PCS)}
	r, err := NewRecipe("Eggs", ings)
	if err != nil {
		t.Fatalf("NewRecipe returned error: %v", err)
	}

	ings[0].Amount = 99
	if r.Ingredients[0].Amount != 2 {
		t.Error("recipe must not share the caller's ingredient slice")
	}
}

func TestNewRecipeAllowsEmptyIngredients(t *testing.T) {
	r, err := NewRecipe("Water", nil)
	if err != nil {
		t.Fatalf("NewRecipe returned error: %v", err)
	}
	if len(r.Ingredients) != 0 {
		t.Errorf("expected no ingredients, got %d", len(r.Ingredients))
	}
}
