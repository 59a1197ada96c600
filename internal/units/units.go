// Package units enumerates the measurement units understood by the planner
// and converts amounts into the canonical unit of each family.
//
// Units are grouped into families (COUNT, MASS, VOLUME) and every family has
// exactly one canonical unit: PCS, G and ML. The unit set is closed, so the
// family and conversion helpers are total functions with no error paths;
// validating untrusted tokens is the job of Parse at the boundary.
package units

import (
	"fmt"
	"strings"
)

// Unit is a supported measurement unit.
type Unit string

const (
	PCS Unit = "PCS" // pieces
	G   Unit = "G"   // grams
	KG  Unit = "KG"  // kilograms
	ML  Unit = "ML"  // milliliters
	L   Unit = "L"   // liters
)

// Family groups units that are mutually convertible.
type Family string

const (
	Count  Family = "COUNT"
	Mass   Family = "MASS"
	Volume Family = "VOLUME"
)

// All returns every supported unit, canonical units first within each family.
func All() []Unit {
	return []Unit{PCS, G, KG, ML, L}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case PCS, G, KG, ML, L:
		return true
	}
	return false
}

// Parse turns a user-supplied token such as "g", "Kg" or "pcs" into a Unit.
func Parse(token string) (Unit, error) {
	u := Unit(strings.ToUpper(strings.TrimSpace(token)))
	if !u.Valid() {
		return "", fmt.Errorf("unknown unit %q (expected one of PCS, G, KG, ML, L)", token)
	}
	return u, nil
}

// FamilyOf returns the family u belongs to.
func FamilyOf(u Unit) Family {
	switch u {
	case PCS:
		return Count
	case G, KG:
		return Mass
	default:
		return Volume
	}
}

// Canonical returns the canonical unit of u's family.
func Canonical(u Unit) Unit {
	switch FamilyOf(u) {
	case Count:
		return PCS
	case Mass:
		return G
	default:
		return ML
	}
}

// ToCanonical converts an amount measured in from into the canonical unit of
// from's family. KG and L scale by 1000; canonical units pass through.
func ToCanonical(amount float64, from Unit) float64 {
	switch from {
	case KG, L:
		return amount * 1000
	default:
		return amount
	}
}

// Convertible reports whether a and b belong to the same family.
func Convertible(a, b Unit) bool {
	return FamilyOf(a) == FamilyOf(b)
}
