// Package storage reads and writes catalogs and pantries as JSON documents.
//
// The on-disk shapes are plain DTOs so the domain types stay free of JSON
// tags; unit tokens are parsed case-insensitively on the way in and written
// in canonical upper-case on the way out.
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/NoMooncake/meal-planner/internal/pantry"
	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/units"
)

type ingredientEntry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type recipeEntry struct {
	Name        string            `json:"name"`
	Ingredients []ingredientEntry `json:"ingredients"`
}

type catalogDocument struct {
	Recipes []recipeEntry `json:"recipes"`
}

type pantryDocument struct {
	Stock []ingredientEntry `json:"stock"`
}

// LoadCatalog reads a catalog document from path.
func LoadCatalog(path string) (recipe.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recipe.Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return recipe.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes a catalog document of the form
// {"recipes":[{"name":...,"ingredients":[{"name","amount","unit"}]}]}.
func ParseCatalog(data []byte) (recipe.Catalog, error) {
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return recipe.Catalog{}, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	recipes := make([]recipe.Recipe, 0, len(doc.Recipes))
	for _, entry := range doc.Recipes {
		ings, err := toIngredients(entry.Ingredients)
		if err != nil {
			return recipe.Catalog{}, fmt.Errorf("recipe %q: %w", entry.Name, err)
		}
		r, err := recipe.NewRecipe(entry.Name, ings)
		if err != nil {
			return recipe.Catalog{}, err
		}
		recipes = append(recipes, r)
	}
	return recipe.NewCatalog(recipes), nil
}

// SaveCatalog writes the catalog as an indented JSON document.
func SaveCatalog(c recipe.Catalog, path string) error {
	doc := catalogDocument{Recipes: make([]recipeEntry, 0, c.Len())}
	for _, r := range c.All() {
		entry := recipeEntry{Name: r.Name, Ingredients: make([]ingredientEntry, 0, len(r.Ingredients))}
		for _, ing := range r.Ingredients {
			entry.Ingredients = append(entry.Ingredients, ingredientEntry{
				Name:   ing.Name,
				Amount: ing.Amount,
				Unit:   string(ing.Unit),
			})
		}
		doc.Recipes = append(doc.Recipes, entry)
	}
	return writeDocument(doc, path, "catalog")
}

// LoadPantry reads a pantry document from path.
func LoadPantry(path string) (*pantry.Pantry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pantry file: %w", err)
	}
	p, err := ParsePantry(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParsePantry decodes a pantry document of the form
// {"stock":[{"name","amount","unit"}]}.
func ParsePantry(data []byte) (*pantry.Pantry, error) {
	var doc pantryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pantry JSON: %w", err)
	}
	p := pantry.New()
	for _, entry := range doc.Stock {
		unit, err := units.Parse(entry.Unit)
		if err != nil {
			return nil, fmt.Errorf("stock entry %q: %w", entry.Name, err)
		}
		if err := p.Add(entry.Name, entry.Amount, unit); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SavePantry writes the pantry contents in canonical units.
func SavePantry(p *pantry.Pantry, path string) error {
	doc := pantryDocument{Stock: make([]ingredientEntry, 0, p.Len())}
	for _, e := range p.Entries() {
		doc.Stock = append(doc.Stock, ingredientEntry{
			Name:   e.Name,
			Amount: e.Amount,
			Unit:   string(e.Unit),
		})
	}
	return writeDocument(doc, path, "pantry")
}

func toIngredients(entries []ingredientEntry) ([]recipe.Ingredient, error) {
	ings := make([]recipe.Ingredient, 0, len(entries))
	for _, entry := range entries {
		unit, err := units.Parse(entry.Unit)
		if err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", entry.Name, err)
		}
		ing, err := recipe.NewIngredient(entry.Name, entry.Amount, unit)
		if err != nil {
			return nil, err
		}
		ings = append(ings, ing)
	}
	return ings, nil
}

func writeDocument(doc any, path, kind string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", kind, err)
	}
	return nil
}
