// Package strategy implements the interchangeable recipe selection policies
// behind plan generation.
//
// A strategy fills every (day, meal type) slot with one recipe from the
// catalog. All strategies are deterministic for fixed inputs: the random
// strategy is driven purely by its seed, and the scoring strategies break
// ties by catalog position.
package strategy

import (
	"errors"

	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/recipe"
)

var (
	ErrInvalidDays   = errors.New("days must be > 0")
	ErrNoMealTypes   = errors.New("at least one meal type is required")
	ErrEmptyCatalog  = errors.New("catalog must not be empty")
	ErrInvalidBudget = errors.New("budget must be > 0")
)

// Strategy fills a plan for the requested days and meal types from the
// given catalog. Implementations must not mutate the catalog slice and must
// reference its recipes rather than copy them.
type Strategy interface {
	GeneratePlan(days int, mealTypes []meal.Type, catalog []recipe.Recipe) (meal.Plan, error)
}

// validateRequest applies the checks shared by every strategy.
func validateRequest(days int, mealTypes []meal.Type, catalog []recipe.Recipe) error {
	if days <= 0 {
		return ErrInvalidDays
	}
	if len(mealTypes) == 0 {
		return ErrNoMealTypes
	}
	if len(catalog) == 0 {
		return ErrEmptyCatalog
	}
	return nil
}
