// Package render turns shopping lists into the output formats the CLI and
// the publishing integrations use: aligned text, CSV and HTML.
package render

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/NoMooncake/meal-planner/internal/grocery"
	"github.com/NoMooncake/meal-planner/internal/units"
)

// Text renders the grouped, aligned terminal view:
//
//	== Shopping List ==
//
//	[G]
//	  chicken              150.0
//
// Items are sorted by name (then unit) and grouped by unit; groups appear in
// the order their unit first occurs in the sorted sequence.
func Text(list grocery.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString("== Shopping List ==\n")
	if list.Empty() {
		sb.WriteString("(nothing to buy 🎉)\n")
		return sb.String()
	}

	sorted := make([]grocery.Item, len(list.Items))
	copy(sorted, list.Items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Unit < sorted[j].Unit
	})

	grouped := make(map[units.Unit][]grocery.Item)
	var groupOrder []units.Unit
	for _, item := range sorted {
		if _, seen := grouped[item.Unit]; !seen {
			groupOrder = append(groupOrder, item.Unit)
		}
		grouped[item.Unit] = append(grouped[item.Unit], item)
	}

	for _, unit := range groupOrder {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "[%s]\n", unit)
		for _, item := range grouped[unit] {
			fmt.Fprintf(&sb, "  %-18s %8.1f\n", item.Name, item.TotalAmount)
		}
	}
	return sb.String()
}

// CSV writes the list as name,amount,unit rows in list order. Amounts are
// written in the shortest exact decimal form.
func CSV(w io.Writer, list grocery.ShoppingList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "amount", "unit"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, item := range list.Items {
		record := []string{
			item.Name,
			strconv.FormatFloat(item.TotalAmount, 'f', -1, 64),
			string(item.Unit),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %q: %w", item.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// HTML renders the list as a minimal fragment suitable for a blog post
// body: one list item per ingredient, in list order.
func HTML(list grocery.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString("<h2>Shopping List</h2>\n")
	if list.Empty() {
		sb.WriteString("<p>Nothing to buy.</p>\n")
		return sb.String()
	}
	sb.WriteString("<ul>\n")
	for _, item := range list.Items {
		fmt.Fprintf(&sb, "<li>%s %s %s</li>\n",
			html.EscapeString(item.Name), FormatAmount(item.TotalAmount), item.Unit)
	}
	sb.WriteString("</ul>\n")
	return sb.String()
}

// FormatAmount prints an amount without trailing zeros: 150 rather than
// 150.0, but 2.5 stays 2.5.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
