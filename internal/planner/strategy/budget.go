package strategy

import (
	"fmt"
	"sort"

	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/pricing"
	"github.com/NoMooncake/meal-planner/internal/recipe"
)

// budgetEpsilon absorbs float noise when a recipe cost lands exactly on the
// remaining budget.
const budgetEpsilon = 1e-9

// nominalCost stands in for recipes the price book cannot price at all, so
// free-looking recipes still consume budget instead of filling every slot.
const nominalCost = 1.0

// BudgetAware greedily spends a total budget across all slots. For each slot
// it picks the most expensive recipe still affordable with the remaining
// budget; equal costs resolve to the earlier catalog entry. When nothing is
// affordable anymore it falls back to the cheapest recipe in the catalog and
// keeps booking its cost, so the overspend is visible in the total.
type BudgetAware struct {
	book   *pricing.Book
	budget float64
}

// NewBudgetAware builds the strategy. A nil price book behaves like an empty
// one, pricing every recipe at the nominal cost.
func NewBudgetAware(book *pricing.Book, budget float64) (*BudgetAware, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidBudget, budget)
	}
	return &BudgetAware{book: book, budget: budget}, nil
}

type costedRecipe struct {
	recipe *recipe.Recipe
	cost   float64
}

// GeneratePlan costs the catalog once, then fills slots day by day.
func (s *BudgetAware) GeneratePlan(days int, mealTypes []meal.Type, catalog []recipe.Recipe) (meal.Plan, error) {
	if err := validateRequest(days, mealTypes, catalog); err != nil {
		return meal.Plan{}, err
	}

	costed := make([]costedRecipe, len(catalog))
	for i := range catalog {
		cost := s.book.EstimateCost(catalog[i])
		if cost <= 0 {
			cost = nominalCost
		}
		costed[i] = costedRecipe{recipe: &catalog[i], cost: cost}
	}
	// Most expensive first; the stable sort keeps catalog order within
	// equal costs, which fixes the tie-break.
	sort.SliceStable(costed, func(i, j int) bool {
		return costed[i].cost > costed[j].cost
	})
	// Strict < keeps the earliest catalog entry among equally cheap recipes.
	cheapest := costed[0]
	for _, c := range costed[1:] {
		if c.cost < cheapest.cost {
			cheapest = c
		}
	}

	spent := 0.0
	slots := make([]meal.Slot, 0, days*len(mealTypes))
	for day := 0; day < days; day++ {
		for _, mt := range mealTypes {
			chosen := cheapest
			remaining := s.budget - spent
			for _, c := range costed {
				if c.cost <= remaining+budgetEpsilon {
					chosen = c
					break
				}
			}
			spent += chosen.cost
			slots = append(slots, meal.Slot{Day: day, Type: mt, Recipe: chosen.recipe})
		}
	}
	return meal.NewPlan(slots), nil
}
