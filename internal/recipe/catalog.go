package recipe

import "github.com/NoMooncake/meal-planner/internal/units"

// Catalog is an ordered, read-only collection of recipes. Catalog order is
// significant: planning strategies break ties by the position of a recipe in
// the catalog, so two runs over the same catalog are reproducible.
type Catalog struct {
	recipes []Recipe
}

// NewCatalog copies the given recipes into a catalog, preserving order.
func NewCatalog(recipes []Recipe) Catalog {
	copied := make([]Recipe, len(recipes))
	copy(copied, recipes)
	return Catalog{recipes: copied}
}

// All returns a copy of the catalog's recipes in catalog order.
func (c Catalog) All() []Recipe {
	out := make([]Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Len returns the number of recipes in the catalog.
func (c Catalog) Len() int {
	return len(c.recipes)
}

// Empty reports whether the catalog holds no recipes.
func (c Catalog) Empty() bool {
	return len(c.recipes) == 0
}

// Plus returns a new catalog with r appended; the receiver is unchanged.
func (c Catalog) Plus(r Recipe) Catalog {
	out := make([]Recipe, 0, len(c.recipes)+1)
	out = append(out, c.recipes...)
	out = append(out, r)
	return Catalog{recipes: out}
}

// SampleCatalog returns the built-in demo catalog used when no catalog file
// is supplied: four simple dishes covering all three unit families.
func SampleCatalog() Catalog {
	return NewCatalog([]Recipe{
		mustRecipe("Eggs",
			mustIngredient("egg", 2, units.PCS),
			mustIngredient("milk", 50, units.ML),
		),
		mustRecipe("Pasta",
			mustIngredient("pasta", 100, units.G),
			mustIngredient("milk", 100, units.ML),
		),
		mustRecipe("Chicken Salad",
			mustIngredient("chicken", 150, units.G),
			mustIngredient("lettuce", 100, units.G),
			mustIngredient("olive oil", 10, units.ML),
		),
		mustRecipe("Fried Rice",
			mustIngredient("rice", 150, units.G),
			mustIngredient("egg", 1, units.PCS),
			mustIngredient("oil", 10, units.ML),
		),
	})
}

func mustRecipe(name string, ingredients ...Ingredient) Recipe {
	r, err := NewRecipe(name, ingredients)
	if err != nil {
		panic(err)
	}
	return r
}

func mustIngredient(name string, amount float64, unit units.Unit) Ingredient {
	i, err := NewIngredient(name, amount, unit)
	if err != nil {
		panic(err)
	}
	return i
}
