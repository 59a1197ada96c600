package units

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		token string
		want  Unit
	}{
		{"g", G},
		{"G", G},
		{" kg ", KG},
		{"Ml", ML},
		{"l", L},
		{"pcs", PCS},
	}
	for _, tc := range cases {
		got, err := Parse(tc.token)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.token, err)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.token, got, tc.want)
		}
	}
}

func TestParseRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "  ", "oz", "grams", "k g"} {
		if _, err := Parse(token); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", token)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	cases := []struct {
		unit Unit
		want Family
	}{
		{PCS, Count},
		{G, Mass},
		{KG, Mass},
		{ML, Volume},
		{L, Volume},
	}
	for _, tc := range cases {
		if got := FamilyOf(tc.unit); got != tc.want {
			t.Errorf("FamilyOf(%s) = %s, want %s", tc.unit, got, tc.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	cases := []struct {
		unit Unit
		want Unit
	}{
		{PCS, PCS},
		{G, G},
		{KG, G},
		{ML, ML},
		{L, ML},
	}
	for _, tc := range cases {
		if got := Canonical(tc.unit); got != tc.want {
			t.Errorf("Canonical(%s) = %s, want %s", tc.unit, got, tc.want)
		}
	}
}

func TestToCanonical(t *testing.T) {
	cases := []struct {
		amount float64
		unit   Unit
		want   float64
	}{
		{2, KG, 2000},
		{1.5, L, 1500},
		{0, KG, 0},
		{250, G, 250},
		{330, ML, 330},
		{3, PCS, 3},
	}
	for _, tc := range cases {
		if got := ToCanonical(tc.amount, tc.unit); got != tc.want {
			t.Errorf("ToCanonical(%v, %s) = %v, want %v", tc.amount, tc.unit, got, tc.want)
		}
	}
}

func TestConvertible(t *testing.T) {
	if !Convertible(G, KG) {
		t.Error("G and KG should be convertible")
	}
	if !Convertible(ML, L) {
		t.Error("ML and L should be convertible")
	}
	if Convertible(G, ML) {
		t.Error("G and ML must not be convertible")
	}
	if Convertible(PCS, G) {
		t.Error("PCS and G must not be convertible")
	}
}

func TestAllUnitsAreValid(t *testing.T) {
	for _, u := range All() {
		if !u.Valid() {
			t.Errorf("All() contains invalid unit %s", u)
		}
	}
	if Unit("OZ").Valid() {
		t.Error("OZ must not be a valid unit")
	}
}
