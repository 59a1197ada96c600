package strategy

import (
	"errors"
	"testing"

	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/units"
)

func testCatalog(t *testing.T) []recipe.Recipe {
	t.Helper()
	return []recipe.Recipe{
		mustRecipe(t, "Eggs",
			mustIngredient(t, "egg", 2, units.PCS),
			mustIngredient(t, "milk", 50, units.ML)),
		mustRecipe(t, "Pasta",
			mustIngredient(t, "pasta", 100, units.G),
			mustIngredient(t, "milk", 100, units.ML)),
		mustRecipe(t, "Fried Rice",
			mustIngredient(t, "rice", 150, units.G),
			mustIngredient(t, "egg", 1, units.PCS)),
	}
}

func mustRecipe(t *testing.T, name string, ings ...recipe.Ingredient) recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(name, ings)
	if err != nil {
		t.Fatalf("building recipe %q: %v", name, err)
	}
	return r
}

func mustIngredient(t *testing.T, name string, amount float64, unit units.Unit) recipe.Ingredient {
	t.Helper()
	i, err := recipe.NewIngredient(name, amount, unit)
	if err != nil {
		t.Fatalf("building ingredient %q: %v", name, err)
	}
	return i
}

func TestRandomPlanShape(t *testing.T) {
	catalog := testCatalog(t)
	types := []meal.Type{meal.Lunch, meal.Dinner}

	plan, err := NewRandom(7).GeneratePlan(3, types, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}
	if plan.Len() != 6 {
		t.Fatalf("expected 6 slots, got %d", plan.Len())
	}

	for i, slot := range plan.Slots {
		wantDay := i / len(types)
		wantType := types[i%len(types)]
		if slot.Day != wantDay || slot.Type != wantType {
			t.Errorf("slot %d: got (day %d, %s), want (day %d, %s)",
				i, slot.Day, slot.Type, wantDay, wantType)
		}
	}
}

func TestRandomSlotsReferenceCatalogRecipes(t *testing.T) {
	catalog := testCatalog(t)

	plan, err := NewRandom(7).GeneratePlan(2, []meal.Type{meal.Lunch}, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}

	for _, slot := range plan.Slots {
		found := false
		for i := range catalog {
			if slot.Recipe == &catalog[i] {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("slot recipe %q is a copy, not a catalog reference", slot.Recipe.Name)
		}
	}
}

func TestRandomIsDeterministicPerSeed(t *testing.T) {
	catalog := testCatalog(t)
	types := []meal.Type{meal.Lunch, meal.Dinner}

	first, err := NewRandom(42).GeneratePlan(4, types, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}
	second, err := NewRandom(42).GeneratePlan(4, types, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}

	if first.Len() != second.Len() {
		t.Fatalf("plans differ in length: %d vs %d", first.Len(), second.Len())
	}
	for i := range first.Slots {
		if first.Slots[i].Recipe.Name != second.Slots[i].Recipe.Name {
			t.Errorf("slot %d differs: %q vs %q",
				i, first.Slots[i].Recipe.Name, second.Slots[i].Recipe.Name)
		}
	}
}

func TestRandomValidation(t *testing.T) {
	catalog := testCatalog(t)
	types := []meal.Type{meal.Lunch}
	s := NewRandom(1)

	if _, err := s.GeneratePlan(0, types, catalog); !errors.Is(err, ErrInvalidDays) {
		t.Errorf("expected ErrInvalidDays, got %v", err)
	}
	if _, err := s.GeneratePlan(1, nil, catalog); !errors.Is(err, ErrNoMealTypes) {
		t.Errorf("expected ErrNoMealTypes, got %v", err)
	}
	if _, err := s.GeneratePlan(1, types, nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}
