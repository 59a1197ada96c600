// Package meal models the output side of planning: meal types, plan slots
// and the plan itself.
package meal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NoMooncake/meal-planner/internal/recipe"
)

// Type is a meal slot category within a day.
type Type string

const (
	Breakfast Type = "BREAKFAST"
	Lunch     Type = "LUNCH"
	Dinner    Type = "DINNER"
)

var (
	ErrInvalidMealType    = errors.New("unknown meal type")
	ErrNoMealTypes        = errors.New("at least one meal type is required")
	ErrInvalidMealsPerDay = errors.New("meals per day must be > 0")
)

// Valid reports whether t is a known meal type.
func (t Type) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

// ParseType turns a token such as "lunch" or "DINNER" into a Type.
func ParseType(token string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(token)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (expected breakfast, lunch or dinner)", ErrInvalidMealType, token)
	}
	return t, nil
}

// ParseTypes parses a comma separated list such as "lunch,dinner" into meal
// types, preserving order. Empty segments are rejected.
func ParseTypes(csv string) ([]Type, error) {
	parts := strings.Split(csv, ",")
	types := make([]Type, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("%w: empty entry in %q", ErrInvalidMealType, csv)
		}
		t, err := ParseType(part)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, ErrNoMealTypes
	}
	return types, nil
}

// DefaultTypes maps a bare meals-per-day count onto concrete types: the
// first slot of the day is LUNCH and every further slot is DINNER.
func DefaultTypes(mealsPerDay int) ([]Type, error) {
	if mealsPerDay <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMealsPerDay, mealsPerDay)
	}
	types := make([]Type, mealsPerDay)
	for i := range types {
		if i == 0 {
			types[i] = Lunch
		} else {
			types[i] = Dinner
		}
	}
	return types, nil
}

// Slot assigns one catalog recipe to one (day, meal type) position. Day is
// zero-based. The recipe pointer refers into the catalog the plan was
// generated from and must be treated as read-only.
type Slot struct {
	Day    int
	Type   Type
	Recipe *recipe.Recipe
}

// NewSlot validates a slot assembled outside a planning strategy.
func NewSlot(day int, t Type, r *recipe.Recipe) (Slot, error) {
	if day < 0 {
		return Slot{}, fmt.Errorf("slot day must be >= 0, got %d", day)
	}
	if !t.Valid() {
		return Slot{}, fmt.Errorf("slot: %w: %q", ErrInvalidMealType, t)
	}
	if r == nil {
		return Slot{}, errors.New("slot recipe must not be nil")
	}
	return Slot{Day: day, Type: t, Recipe: r}, nil
}

func (s Slot) String() string {
	return fmt.Sprintf("day %d %s: %s", s.Day+1, s.Type, s.Recipe.Name)
}

// Plan is the ordered result of a planning run: slots in generation order,
// i.e. day-major and meal-type order within each day.
type Plan struct {
	Slots []Slot
}

// NewPlan copies the slot list into a plan.
func NewPlan(slots []Slot) Plan {
	copied := make([]Slot, len(slots))
	copy(copied, slots)
	return Plan{Slots: copied}
}

// Days returns the number of distinct days covered by the plan.
func (p Plan) Days() int {
	seen := make(map[int]bool)
	for _, s := range p.Slots {
		seen[s.Day] = true
	}
	return len(seen)
}

// Len returns the number of slots in the plan.
func (p Plan) Len() int {
	return len(p.Slots)
}
