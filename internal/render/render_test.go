package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/NoMooncake/meal-planner/internal/grocery"
	"github.com/NoMooncake/meal-planner/internal/units"
)

func sampleList() grocery.ShoppingList {
	return grocery.ShoppingList{Items: []grocery.Item{
		{Name: "milk", Unit: units.ML, TotalAmount: 180},
		{Name: "egg", Unit: units.PCS, TotalAmount: 4},
		{Name: "chicken", Unit: units.G, TotalAmount: 150},
		{Name: "rice", Unit: units.G, TotalAmount: 300},
	}}
}

func TestTextGroupsAndSorts(t *testing.T) {
	got := Text(sampleList())

	if !strings.HasPrefix(got, "== Shopping List ==\n") {
		t.Errorf("missing header:\n%s", got)
	}

	// Sorted by name: chicken(G), egg(PCS), milk(ML), rice(G). Group order
	// follows the first occurrence of each unit in that sequence.
	gIdx := strings.Index(got, "[G]")
	pcsIdx := strings.Index(got, "[PCS]")
	mlIdx := strings.Index(got, "[ML]")
	if gIdx == -1 || pcsIdx == -1 || mlIdx == -1 {
		t.Fatalf("missing unit group headers:\n%s", got)
	}
	if !(gIdx < pcsIdx && pcsIdx < mlIdx) {
		t.Errorf("unexpected group order (want G, PCS, ML):\n%s", got)
	}

	// Both G items live in the single [G] group, sorted by name.
	chickenIdx := strings.Index(got, "chicken")
	riceIdx := strings.Index(got, "rice")
	if !(gIdx < chickenIdx && chickenIdx < riceIdx && riceIdx < pcsIdx) {
		t.Errorf("G group should contain chicken then rice:\n%s", got)
	}

	if !strings.Contains(got, "  chicken               150.0\n") {
		t.Errorf("row alignment changed:\n%s", got)
	}
}

func TestTextEmptyList(t *testing.T) {
	got := Text(grocery.ShoppingList{})
	want := "== Shopping List ==\n(nothing to buy 🎉)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sampleList()); err != nil {
		t.Fatalf("CSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "name,amount,unit" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// CSV preserves list order, not sorted order.
	if lines[1] != "milk,180,ML" {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if lines[3] != "chicken,150,G" {
		t.Errorf("unexpected third row: %q", lines[3])
	}
}

func TestCSVEmptyListHasOnlyHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, grocery.ShoppingList{}); err != nil {
		t.Fatalf("CSV returned error: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "name,amount,unit" {
		t.Errorf("expected only the header, got %q", got)
	}
}

func TestHTML(t *testing.T) {
	got := HTML(sampleList())
	if !strings.Contains(got, "<h2>Shopping List</h2>") {
		t.Errorf("missing heading:\n%s", got)
	}
	if !strings.Contains(got, "<li>milk 180 ML</li>") {
		t.Errorf("missing milk row:\n%s", got)
	}

	empty := HTML(grocery.ShoppingList{})
	if !strings.Contains(empty, "Nothing to buy.") {
		t.Errorf("missing empty message:\n%s", empty)
	}
}

func TestHTMLEscapesNames(t *testing.T) {
	list := grocery.ShoppingList{Items: []grocery.Item{
		{Name: "chili & lime <mix>", Unit: units.G, TotalAmount: 5},
	}}
	got := HTML(list)
	if !strings.Contains(got, "chili &amp; lime &lt;mix&gt;") {
		t.Errorf("name was not escaped:\n%s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{150, "150"},
		{2.5, "2.5"},
		{0.3, "0.3"},
		{1000, "1000"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
