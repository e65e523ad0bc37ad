package pos

import (
	"strings"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// Recipe is the bartender view of a product recipe. Available is false
// when the product carries none.
type Recipe struct {
	ProductID    string   `json:"product_id"`
	ProductName  string   `json:"product_name"`
	Available    bool     `json:"available"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
}

// RecipeFromProduct reads metadata.recipe.{ingredients,instructions},
// each a newline separated text.
func RecipeFromProduct(p api.Product) Recipe {
	r := Recipe{ProductID: p.ID.String(), ProductName: p.Name}

	raw, ok := p.Metadata["recipe"].(map[string]interface{})
	if !ok {
		return r
	}

	ingredients, _ := raw["ingredients"].(string)
	instructions, _ := raw["instructions"].(string)
	r.Ingredients = splitLines(ingredients)
	r.Instructions = splitLines(instructions)
	r.Available = len(r.Ingredients) > 0 || len(r.Instructions) > 0
	return r
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
