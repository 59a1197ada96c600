// Package pantry tracks ingredient stock already at hand so shopping lists
// only contain what actually needs to be bought.
package pantry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/units"
)

// Pantry accumulates stock per canonical ingredient identity. Amounts are
// stored in canonical units, so adding 1 KG of rice and asking for grams of
// rice both work on the same entry.
type Pantry struct {
	stock map[recipe.Identity]float64
	order []recipe.Identity
}

// Entry is one pantry line in canonical units, used for display and export.
type Entry struct {
	Name   string
	Amount float64
	Unit   units.Unit
}

// New returns an empty pantry.
func New() *Pantry {
	return &Pantry{stock: make(map[recipe.Identity]float64)}
}

// Add records stock, merging with any existing amount under the same
// canonical identity. Validation matches ingredient validation: non-blank
// name, known unit, finite non-negative amount.
func (p *Pantry) Add(name string, amount float64, unit units.Unit) error {
	ing, err := recipe.NewIngredient(name, amount, unit)
	if err != nil {
		return fmt.Errorf("pantry: %w", err)
	}
	key, canonical := ing.Canonical()
	if _, seen := p.stock[key]; !seen {
		p.order = append(p.order, key)
	}
	p.stock[key] += canonical
	return nil
}

// AmountOf returns the stocked amount for the given name and unit, expressed
// in the canonical unit of the unit's family. Unknown ingredients yield 0.
func (p *Pantry) AmountOf(name string, unit units.Unit) float64 {
	key := recipe.Identity{Name: recipe.Normalize(name), Unit: units.Canonical(unit)}
	return p.stock[key]
}

// Snapshot returns a copy of the stock map keyed by canonical identity.
// Strategies work on snapshots so planning never mutates the pantry itself.
func (p *Pantry) Snapshot() map[recipe.Identity]float64 {
	if p == nil {
		return map[recipe.Identity]float64{}
	}
	out := make(map[recipe.Identity]float64, len(p.stock))
	for k, v := range p.stock {
		out[k] = v
	}
	return out
}

// Entries lists the pantry contents in first-added order.
func (p *Pantry) Entries() []Entry {
	if p == nil {
		return nil
	}
	out := make([]Entry, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, Entry{Name: key.Name, Amount: p.stock[key], Unit: key.Unit})
	}
	return out
}

// Len returns the number of distinct stocked identities.
func (p *Pantry) Len() int {
	if p == nil {
		return 0
	}
	return len(p.stock)
}

// ParseSpec builds a pantry from a compact command-line form:
//
//	"milk=500:ml,egg=4:pcs,rice=1:kg"
//
// Each entry is name=amount:unit; entries are comma separated. An empty spec
// yields an empty pantry.
func ParseSpec(spec string) (*Pantry, error) {
	p := New()
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return p, nil
	}
	for _, entry := range strings.Split(trimmed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("pantry spec: entry %q is not name=amount:unit", entry)
		}
		amountText, unitText, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("pantry spec: entry %q is missing the :unit part", entry)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
		if err != nil {
			return nil, fmt.Errorf("pantry spec: bad amount in %q: %w", entry, err)
		}
		unit, err := units.Parse(unitText)
		if err != nil {
			return nil, fmt.Errorf("pantry spec: %w", err)
		}
		if err := p.Add(name, amount, unit); err != nil {
			return nil, err
		}
	}
	return p, nil
}
