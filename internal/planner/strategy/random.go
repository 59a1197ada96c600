package strategy

import (
	"math/rand"

	"github.com/NoMooncake/meal-planner/internal/meal"
	"github.com/NoMooncake/meal-planner/internal/recipe"
)

// Random picks a uniformly random catalog recipe for every slot. The
// sequence of picks is fully determined by the seed and the catalog order,
// so a run can be reproduced by reusing both.
//
// A Random value is stateful: a second GeneratePlan call continues the same
// pseudo-random sequence. Construct a fresh instance with the same seed to
// replay a plan.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a random strategy seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// GeneratePlan fills slots day by day, in the given meal type order within
// each day.
func (s *Random) GeneratePlan(days int, mealTypes []meal.Type, catalog []recipe.Recipe) (meal.Plan, error) {
	if err := validateRequest(days, mealTypes, catalog); err != nil {
		return meal.Plan{}, err
	}
	slots := make([]meal.Slot, 0, days*len(mealTypes))
	for day := 0; day < days; day++ {
		for _, mt := range mealTypes {
			pick := &catalog[s.rng.Intn(len(catalog))]
			slots = append(slots, meal.Slot{Day: day, Type: mt, Recipe: pick})
		}
	}
	return meal.NewPlan(slots), nil
}
