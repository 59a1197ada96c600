package strategy

import (
	"testing"

	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/pantry"
	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/units"
)

func TestPantryFirstPrefersStockedRecipes(t *testing.T) {
	catalog := []recipe.Recipe{
		mustRecipe(t, "Rice Bowl", mustIngredient(t, "rice", 100, units.G)),
		mustRecipe(t, "Eggs", mustIngredient(t, "egg", 2, units.PCS)),
	}
	stock := pantry.New()
	if err := stock.Add("egg", 2, units.PCS); err != nil {
		t.Fatal(err)
	}

	plan, err := NewPantryFirst(stock).GeneratePlan(1, []meal.Type{meal.Lunch}, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}
	if got := plan.Slots[0].Recipe.Name; got != "Eggs" {
		t.Errorf("expected the fully stocked recipe, got %q", got)
	}
}

func TestPantryFirstConsumesWorkingStock(t *testing.T) {
	catalog := []recipe.Recipe{
		mustRecipe(t, "Rice Bowl", mustIngredient(t, "rice", 100, units.G)),
		mustRecipe(t, "Eggs", mustIngredient(t, "egg", 2, units.PCS)),
	}
	stock := pantry.New()
	if err := stock.Add("egg", 2, units.PCS); err != nil {
		t.Fatal(err)
	}
	if err := stock.Add("rice", 99, units.G); err != nil {
		t.Fatal(err)
	}

	plan, err := NewPantryFirst(stock).GeneratePlan(1, []meal.Type{meal.Lunch, meal.Dinner}, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}

	// Lunch: Eggs is fully covered (missing 0 vs 1 for the rice bowl) and
	// eats the eggs. Dinner: Eggs now misses 2 PCS, the rice bowl only 1 G.
	if got := plan.Slots[0].Recipe.Name; got != "Eggs" {
		t.Errorf("lunch: expected Eggs, got %q", got)
	}
	if got := plan.Slots[1].Recipe.Name; got != "Rice Bowl" {
		t.Errorf("dinner: expected Rice Bowl after eggs were consumed, got %q", got)
	}
}

func TestPantryFirstLeavesThePantryUntouched(t *testing.T) {
	catalog := []recipe.Recipe{
		mustRecipe(t, "Eggs", mustIngredient(t, "egg", 2, units.PCS)),
	}
	stock := pantry.New()
	if err := stock.Add("egg", 2, units.PCS); err != nil {
		t.Fatal(err)
	}

	s := NewPantryFirst(stock)
	if _, err := s.GeneratePlan(3, []meal.Type{meal.Lunch, meal.Dinner}, catalog); err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}
	if got := stock.AmountOf("egg", units.PCS); got != 2 {
		t.Errorf("pantry was modified: %v eggs left", got)
	}
}

func TestPantryFirstRunsAreIndependent(t *testing.T) {
	catalog := []recipe.Recipe{
		mustRecipe(t, "Rice Bowl", mustIngredient(t, "rice", 100, units.G)),
		mustRecipe(t, "Eggs", mustIngredient(t, "egg", 2, units.PCS)),
	}
	stock := pantry.New()
	if err := stock.Add("egg", 2, units.PCS); err != nil {
		t.Fatal(err)
	}
	if err := stock.Add("rice", 99, units.G); err != nil {
		t.Fatal(err)
	}

	s := NewPantryFirst(stock)
	types := []meal.Type{meal.Lunch, meal.Dinner}

	first, err := s.GeneratePlan(1, types, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}
	second, err := s.GeneratePlan(1, types, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}

	// Each run must start from the same baseline. If working stock leaked
	// between runs, the second run would no longer see the 99 G of rice
	// and would fill the dinner slot with Eggs instead.
	for i := range first.Slots {
		if first.Slots[i].Recipe.Name != second.Slots[i].Recipe.Name {
			t.Errorf("slot %d differs between runs: %q vs %q",
				i, first.Slots[i].Recipe.Name, second.Slots[i].Recipe.Name)
		}
	}
	if got := second.Slots[1].Recipe.Name; got != "Rice Bowl" {
		t.Errorf("second run dinner: expected Rice Bowl, got %q", got)
	}
}

func TestPantryFirstTieBreaksByCatalogOrder(t *testing.T) {
	catalog := []recipe.Recipe{
		mustRecipe(t, "First", mustIngredient(t, "egg", 2, units.PCS)),
		mustRecipe(t, "Second", mustIngredient(t, "egg", 2, units.PCS)),
	}

	plan, err := NewPantryFirst(nil).GeneratePlan(1, []meal.Type{meal.Lunch, meal.Dinner}, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}
	for i, slot := range plan.Slots {
		if slot.Recipe.Name != "First" {
			t.Errorf("slot %d: tie should resolve to the first catalog entry, got %q",
				i, slot.Recipe.Name)
		}
	}
}

func TestPantryFirstWithNilPantry(t *testing.T) {
	catalog := []recipe.Recipe{
		mustRecipe(t, "Eggs", mustIngredient(t, "egg", 2, units.PCS)),
	}

	plan, err := NewPantryFirst(nil).GeneratePlan(1, []meal.Type{meal.Lunch}, catalog)
	if err != nil {
		t.Fatalf("GeneratePlan returned error: %v", err)
	}
	if plan.Len() != 1 {
		t.Errorf("expected 1 slot, got %d", plan.Len())
	}
}

func TestPantryFirstValidation(t *testing.T) {
	s := NewPantryFirst(nil)
	if _, err := s.GeneratePlan(1, []meal.Type{meal.Lunch}, nil); err == nil {
		t.Error("empty catalog should be rejected")
	}
}
