// Package clipper imports recipes from the web into the recipe box.
//
// Extraction is deterministic: schema.org Recipe JSON-LD when the page
// carries it, otherwise an "Ingredients" heading followed by a list.
// Clipped recipes are published to Ghost in a structured HTML shape
// that RecipeFromPost can parse back when the catalog syncs.
package clipper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NoMooncake/meal-planner/internal/ghost"
	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/units"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoRecipe is returned when a page has no extractable recipe.
var ErrNoRecipe = errors.New("no recipe found in page")

// Clipper fetches recipe pages and files them into the recipe box.
type Clipper struct {
	ghostClient ghost.Client
	httpClient  *http.Client
}

// extractedRecipe is the structured data pulled out of a page.
type extractedRecipe struct {
	Title       string
	Ingredients []string
	Steps       []string
	PrepTime    string
	Servings    string
}

// NewClipper creates a new Clipper instance.
func NewClipper(ghostClient ghost.Client) *Clipper {
	return &Clipper{
		ghostClient: ghostClient,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the page, extracts the recipe and publishes it to
// the recipe box.
func (c *Clipper) ClipURL(ctx context.Context, pageURL string) (*ghost.Post, error) {
	// 1. Fetch and parse the page
	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	// 2. Extract recipe data: JSON-LD first, ingredient markup second
	extracted, ok := recipeFromJSONLD(doc)
	if !ok {
		extracted, ok = recipeFromMarkup(doc)
	}
	if !ok {
		return nil, ErrNoRecipe
	}
	if extracted.Title == "" {
		extracted.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if extracted.Title == "" {
		extracted.Title = pageURL
	}

	// 3. Format as a structured recipe post
	body := formatToHTML(extracted, pageURL)

	// 4. Save to the recipe box (published)
	post, err := c.ghostClient.CreatePost(extracted.Title, body, []string{"recipe"}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to save to ghost: %w", err)
	}

	return post, nil
}

func (c *Clipper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	// Remove layout noise; script tags stay because JSON-LD lives there.
	doc.Find("style, nav, footer, iframe").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc, nil
}

// recipeFromJSONLD scans ld+json script blocks for a schema.org Recipe.
func recipeFromJSONLD(doc *goquery.Document) (extractedRecipe, bool) {
	var found extractedRecipe
	ok := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if r, hit := findLDRecipe(data); hit && len(r.Ingredients) > 0 {
			found, ok = r, true
			return false
		}
		return true
	})

	return found, ok
}

// findLDRecipe walks a decoded JSON-LD value, including @graph nesting
// and top-level arrays, looking for a node typed Recipe.
func findLDRecipe(node interface{}) (extractedRecipe, bool) {
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			if r, ok := findLDRecipe(item); ok {
				return r, true
			}
		}
	case map[string]interface{}:
		if isLDType(v["@type"], "Recipe") {
			return ldToExtracted(v), true
		}
		if graph, ok := v["@graph"]; ok {
			return findLDRecipe(graph)
		}
	}
	return extractedRecipe{}, false
}

func isLDType(t interface{}, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func ldToExtracted(m map[string]interface{}) extractedRecipe {
	r := extractedRecipe{}
	if name, ok := m["name"].(string); ok {
		r.Title = strings.TrimSpace(name)
	}
	if raw, ok := m["recipeIngredient"].([]interface{}); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				r.Ingredients = append(r.Ingredients, strings.TrimSpace(s))
			}
		}
	}
	r.Steps = ldInstructions(m["recipeInstructions"])
	if prep, ok := m["prepTime"].(string); ok {
		r.PrepTime = strings.TrimSpace(prep)
	}
	r.Servings = ldYield(m["recipeYield"])
	return r
}

// ldInstructions accepts the common encodings of recipeInstructions:
// a plain string, a list of strings, or a list of HowToStep objects.
func ldInstructions(raw interface{}) []string {
	var steps []string
	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			steps = append(steps, s)
		}
	case []interface{}:
		for _, item := range v {
			switch step := item.(type) {
			case string:
				if s := strings.TrimSpace(step); s != "" {
					steps = append(steps, s)
				}
			case map[string]interface{}:
				if text, ok := step["text"].(string); ok && strings.TrimSpace(text) != "" {
					steps = append(steps, strings.TrimSpace(text))
				}
			}
		}
	}
	return steps
}

func ldYield(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []interface{}:
		for _, item := range v {
			if s := ldYield(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// recipeFromMarkup falls back to scanning headings when a page carries
// no JSON-LD: the list after an "Ingredients" heading, and optionally
// the list after an "Instructions" heading.
func recipeFromMarkup(doc *goquery.Document) (extractedRecipe, bool) {
	r := extractedRecipe{}
	r.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	r.Ingredients = ingredientLines(doc)
	if len(r.Ingredients) == 0 {
		return extractedRecipe{}, false
	}

	doc.Find("h2, h3").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.Text()), "Instructions") {
			return true
		}
		s.NextAllFiltered("ol, ul").First().Find("li").Each(func(i int, li *goquery.Selection) {
			if step := strings.TrimSpace(li.Text()); step != "" {
				r.Steps = append(r.Steps, step)
			}
		})
		return false
	})

	return r, true
}

// ingredientLines returns the items of the list following an
// "Ingredients" heading.
func ingredientLines(doc *goquery.Document) []string {
	var lines []string
	doc.Find("h2, h3").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.Text()), "Ingredients") {
			return true
		}
		s.NextAllFiltered("ul").First().Find("li").Each(func(i int, li *goquery.Selection) {
			if item := strings.TrimSpace(li.Text()); item != "" {
				lines = append(lines, item)
			}
		})
		return false
	})
	return lines
}

func formatToHTML(r extractedRecipe, sourceURL string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<p><i>Imported from: <a href=\"%s\">%s</a></i></p>",
		html.EscapeString(sourceURL), html.EscapeString(sourceURL)))

	sb.WriteString("<h2>Ingredients</h2><ul>")
	for _, ing := range r.Ingredients {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(ing)))
	}
	sb.WriteString("</ul>")

	if len(r.Steps) > 0 {
		sb.WriteString("<h2>Instructions</h2><ol>")
		for _, step := range r.Steps {
			sb.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(step)))
		}
		sb.WriteString("</ol>")
	}

	if r.PrepTime != "" || r.Servings != "" {
		sb.WriteString("<hr>")
		sb.WriteString(fmt.Sprintf("<p><strong>Prep Time:</strong> %s | <strong>Servings:</strong> %s</p>",
			html.EscapeString(r.PrepTime), html.EscapeString(r.Servings)))
	}

	return sb.String()
}

var unitAliases = map[string]units.Unit{
	"pcs": units.PCS, "pc": units.PCS, "piece": units.PCS, "pieces": units.PCS,
	"g": units.G, "gram": units.G, "grams": units.G,
	"kg": units.KG, "kilogram": units.KG, "kilograms": units.KG,
	"ml": units.ML, "milliliter": units.ML, "milliliters": units.ML, "millilitre": units.ML, "millilitres": units.ML,
	"l": units.L, "liter": units.L, "liters": units.L, "litre": units.L, "litres": units.L,
}

// ParseQuantity parses an ingredient line of the form
// "amount [unit] [of] name", e.g. "2 eggs", "100 g of rice",
// "1.5 l milk". A missing unit means pieces.
func ParseQuantity(line string) (recipe.Ingredient, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return recipe.Ingredient{}, fmt.Errorf("quantity %q: want \"amount [unit] name\"", line)
	}

	amount, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return recipe.Ingredient{}, fmt.Errorf("quantity %q: amount %q is not a number", line, fields[0])
	}

	rest := fields[1:]
	unit := units.PCS
	if u, ok := unitAliases[strings.ToLower(rest[0])]; ok && len(rest) > 1 {
		unit = u
		rest = rest[1:]
	}
	if strings.EqualFold(rest[0], "of") && len(rest) > 1 {
		rest = rest[1:]
	}

	return recipe.NewIngredient(strings.Join(rest, " "), amount, unit)
}

// RecipeFromPost parses a structured recipe post (the shape ClipURL
// publishes) back into a recipe.
func RecipeFromPost(post ghost.Post) (recipe.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(post.HTML))
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to parse post html: %w", err)
	}

	lines := ingredientLines(doc)
	if len(lines) == 0 {
		return recipe.Recipe{}, fmt.Errorf("post %q has no ingredient list", post.Title)
	}

	ingredients := make([]recipe.Ingredient, 0, len(lines))
	for _, line := range lines {
		ing, err := ParseQuantity(line)
		if err != nil {
			return recipe.Recipe{}, fmt.Errorf("post %q: %w", post.Title, err)
		}
		ingredients = append(ingredients, ing)
	}

	return recipe.NewRecipe(post.Title, ingredients)
}

// CatalogFromPosts builds a catalog from recipe posts. Posts whose
// ingredient lines do not parse are logged and skipped.
func CatalogFromPosts(posts []ghost.Post) recipe.Catalog {
	var recipes []recipe.Recipe
	for _, post := range posts {
		r, err := RecipeFromPost(post)
		if err != nil {
			log.Printf("clipper: skipping post: %v", err)
			continue
		}
		recipes = append(recipes, r)
	}
	return recipe.NewCatalog(recipes)
}
