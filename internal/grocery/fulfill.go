package grocery

import (
	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/pantry"
	"github.com/NoMooncake/meal-planner/internal/recipe"
)

// coverageEpsilon guards against float noise when pantry stock almost
// exactly covers a need: residuals at or below it are treated as covered.
const coverageEpsilon = 1e-7

// FromPlan aggregates every slot of the plan into one shopping list, in slot
// order.
func FromPlan(p meal.Plan) ShoppingList {
	b := NewListBuilder()
	for _, slot := range p.Slots {
		b.AddRecipe(*slot.Recipe)
	}
	return b.Build()
}

// FromPlanWithPantry builds the plan's shopping list and subtracts pantry
// stock from it.
func FromPlanWithPantry(p meal.Plan, stock *pantry.Pantry) ShoppingList {
	return Subtract(FromPlan(p), stock)
}

// Subtract removes pantry stock from the needed totals. Items whose
// remaining amount is within coverageEpsilon of zero are dropped entirely;
// the rest keep their first-needed order with the reduced amount. The pantry
// itself is never modified.
func Subtract(need ShoppingList, stock *pantry.Pantry) ShoppingList {
	if stock == nil || stock.Len() == 0 {
		return need
	}
	items := make([]Item, 0, len(need.Items))
	for _, item := range need.Items {
		have := stock.AmountOf(item.Name, item.Unit)
		buy := item.TotalAmount - have
		if buy > coverageEpsilon {
			items = append(items, Item{Name: item.Name, Unit: item.Unit, TotalAmount: buy})
		}
	}
	return ShoppingList{Items: items}
}

// Missing returns how much of the given identities the pantry lacks. It is
// the same arithmetic as Subtract but keyed, which the planning strategies
// use for scoring.
func Missing(need map[recipe.Identity]float64, stock map[recipe.Identity]float64) float64 {
	total := 0.0
	for key, amount := range need {
		if shortfall := amount - stock[key]; shortfall > 0 {
			total += shortfall
		}
	}
	return total
}
