// Package planner exposes the facade that the CLI and the Telegram bot use:
// a catalog bound to a selection strategy, producing plans and shopping
// lists.
package planner

import (
	"errors"
	"fmt"

	"github.com/NoMooncake/meal-planner/internal/grocery"
	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/pantry"
	"github.com/NoMooncake/meal-planner/internal/planner/strategy"
	"github.com/NoMooncake/meal-planner/internal/recipe"
)

var ErrNilStrategy = errors.New("strategy must not be nil")

// Planner binds a recipe catalog to a selection strategy. The catalog is
// copied once at construction; generated plans reference the planner's copy.
type Planner struct {
	catalog []recipe.Recipe
	strat   strategy.Strategy
}

// New builds a planner over a non-empty catalog.
func New(catalog recipe.Catalog, strat strategy.Strategy) (*Planner, error) {
	if catalog.Empty() {
		return nil, strategy.ErrEmptyCatalog
	}
	if strat == nil {
		return nil, ErrNilStrategy
	}
	return &Planner{catalog: catalog.All(), strat: strat}, nil
}

// Plan generates a meal plan covering days x mealTypes slots.
func (p *Planner) Plan(days int, mealTypes []meal.Type) (meal.Plan, error) {
	plan, err := p.strat.GeneratePlan(days, mealTypes, p.catalog)
	if err != nil {
		return meal.Plan{}, fmt.Errorf("failed to generate plan: %w", err)
	}
	return plan, nil
}

// PlanMeals is the counted variant of Plan: mealsPerDay slots per day, the
// first being lunch and the rest dinner.
func (p *Planner) PlanMeals(days, mealsPerDay int) (meal.Plan, error) {
	types, err := meal.DefaultTypes(mealsPerDay)
	if err != nil {
		return meal.Plan{}, err
	}
	return p.Plan(days, types)
}

// ShoppingList generates a plan and aggregates it into one shopping list.
func (p *Planner) ShoppingList(days int, mealTypes []meal.Type) (grocery.ShoppingList, error) {
	plan, err := p.Plan(days, mealTypes)
	if err != nil {
		return grocery.ShoppingList{}, err
	}
	return grocery.FromPlan(plan), nil
}

// ShoppingListWithPantry generates a plan, aggregates it and subtracts
// pantry stock from the result. The pantry is read, never modified.
func (p *Planner) ShoppingListWithPantry(days int, mealTypes []meal.Type, stock *pantry.Pantry) (grocery.ShoppingList, error) {
	plan, err := p.Plan(days, mealTypes)
	if err != nil {
		return grocery.ShoppingList{}, err
	}
	return grocery.FromPlanWithPantry(plan, stock), nil
}
