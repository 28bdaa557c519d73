package shopping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoRecipesSelected is returned when Aggregate is called without recipe ids.
	ErrNoRecipesSelected = errors.New("please select at least one recipe")
	// ErrNoRecipesFound is returned when none of the requested recipes exist.
	ErrNoRecipesFound = errors.New("no recipes found")
)

// DefaultListName is used when the caller does not name the list.
const DefaultListName = "My Shopping List"

// Item is one line of a shopping list.
type Item struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     Unit     `json:"unit"`
	Category Category `json:"category"`
	Checked  bool     `json:"checked"`
}

// Recipe is the part of a stored recipe the aggregator reads.
type Recipe struct {
	ID          uuid.UUID
	Ingredients []string
}

// RecipeStore loads recipes by id. Ids that do not resolve are skipped.
type RecipeStore interface {
	FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]Recipe, error)
}

// Request describes one shopping list generation.
type Request struct {
	Name               string
	Notes              string
	RecipeIDs          []uuid.UUID
	OwnerID            uuid.UUID
	DietaryPreferences []string
}

// GeneratedList is the aggregation result, ready to be persisted.
type GeneratedList struct {
	Name               string      `json:"name"`
	Notes              string      `json:"notes"`
	RecipeIDs          []uuid.UUID `json:"recipe_ids"`
	Items              []Item      `json:"items"`
	OwnerID            uuid.UUID   `json:"owner_id"`
	DietaryPreferences []string    `json:"dietary_preferences"`
}

// Aggregator builds shopping lists out of recipe ingredient lines.
type Aggregator struct {
	recipes RecipeStore
	logger  *zap.Logger
}

// NewAggregator creates an Aggregator backed by the given recipe store.
func NewAggregator(recipes RecipeStore, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{recipes: recipes, logger: logger}
}

// Aggregate loads the requested recipes and merges their ingredients into a
// single categorized item list. It does not persist anything.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*GeneratedList, error) {
	if len(req.RecipeIDs) == 0 {
		return nil, ErrNoRecipesSelected
	}

	recipes, err := a.recipes.FindRecipesByIDs(ctx, req.RecipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, ErrNoRecipesFound
	}

	lines := 0
	for _, r := range recipes {
		lines += len(r.Ingredients)
	}
	items := MergeIngredients(recipes)

	a.logger.Debug("aggregated shopping list",
		zap.Int("recipes", len(recipes)),
		zap.Int("ingredient_lines", lines),
		zap.Int("items", len(items)),
	)

	name := req.Name
	if name == "" {
		name = DefaultListName
	}
	prefs := req.DietaryPreferences
	if prefs == nil {
		prefs = []string{}
	}

	return &GeneratedList{
		Name:               name,
		Notes:              req.Notes,
		RecipeIDs:          req.RecipeIDs,
		Items:              items,
		OwnerID:            req.OwnerID,
		DietaryPreferences: prefs,
	}, nil
}

type mergeKey struct {
	name string
	unit Unit
}

// MergeIngredients parses every ingredient line of the given recipes, sums
// quantities of lines sharing a name and unit, and categorizes the result.
// Items keep the order in which their first line was seen. Lines with the
// same name but a different unit stay separate.
func MergeIngredients(recipes []Recipe) []Item {
	index := make(map[mergeKey]int)
	items := make([]Item, 0)

	for _, r := range recipes {
		for _, line := range r.Ingredients {
			p := ParseIngredientLine(line)
			key := mergeKey{name: p.Name, unit: p.Unit}
			if i, ok := index[key]; ok {
				items[i].Quantity += p.Quantity
				continue
			}
			index[key] = len(items)
			items = append(items, Item{
				Name:     p.Name,
				Quantity: p.Quantity,
				Unit:     p.Unit,
			})
		}
	}

	for i := range items {
		items[i].Category = Categorize(items[i].Name)
		items[i].Checked = false
	}
	return items
}
