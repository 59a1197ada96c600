package strategy

import (
	"github.com/NoMooncake/meal-planner/internal/grocery"
	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/pantry"
	"github.com/NoMooncake/meal-planner/internal/recipe"
)

// PantryFirst prefers recipes that need the least shopping given current
// stock. For every slot it scores each catalog recipe by the total canonical
// amount missing from the working stock and picks the strictly smallest
// score, breaking ties by catalog position. The chosen recipe's ingredients
// are then consumed from the working stock, so stock-heavy recipes win early
// slots and later slots see what is left.
//
// The pantry is snapshotted at construction; planning runs never modify the
// pantry itself, and each GeneratePlan call starts from the same baseline.
type PantryFirst struct {
	baseline map[recipe.Identity]float64
}

// NewPantryFirst builds the strategy from current pantry stock. A nil
// pantry is treated as empty, which degrades the scoring to plain catalog
// order.
func NewPantryFirst(stock *pantry.Pantry) *PantryFirst {
	return &PantryFirst{baseline: stock.Snapshot()}
}

// GeneratePlan fills slots day by day against a working copy of the
// baseline stock.
func (s *PantryFirst) GeneratePlan(days int, mealTypes []meal.Type, catalog []recipe.Recipe) (meal.Plan, error) {
	if err := validateRequest(days, mealTypes, catalog); err != nil {
		return meal.Plan{}, err
	}

	working := make(map[recipe.Identity]float64, len(s.baseline))
	for k, v := range s.baseline {
		working[k] = v
	}

	slots := make([]meal.Slot, 0, days*len(mealTypes))
	for day := 0; day < days; day++ {
		for _, mt := range mealTypes {
			best := s.pickBest(catalog, working)
			consume(working, catalog[best])
			slots = append(slots, meal.Slot{Day: day, Type: mt, Recipe: &catalog[best]})
		}
	}
	return meal.NewPlan(slots), nil
}

// pickBest returns the catalog index with the smallest missing score. Only a
// strictly smaller score displaces the current best, so ties resolve to the
// earliest catalog entry.
func (s *PantryFirst) pickBest(catalog []recipe.Recipe, stock map[recipe.Identity]float64) int {
	best := 0
	bestScore := grocery.Missing(catalog[0].CanonicalTotals(), stock)
	for i := 1; i < len(catalog); i++ {
		if score := grocery.Missing(catalog[i].CanonicalTotals(), stock); score < bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// consume subtracts the recipe's canonical totals from the stock, flooring
// at zero: entries that drop to or below zero are removed so they never go
// negative.
func consume(stock map[recipe.Identity]float64, r recipe.Recipe) {
	for key, amount := range r.CanonicalTotals() {
		remaining := stock[key] - amount
		if remaining > 0 {
			stock[key] = remaining
		} else {
			delete(stock, key)
		}
	}
}
