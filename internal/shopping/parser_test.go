package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ParsedIngredient
	}{
		{"number unit name", "1.5 cup flour", ParsedIngredient{Name: "flour", Quantity: 1.5, Unit: UnitCup}},
		{"unit glued to number", "200g pasta", ParsedIngredient{Name: "pasta", Quantity: 200, Unit: UnitGram}},
		{"plural unit folds to singular", "2 cups rice", ParsedIngredient{Name: "rice", Quantity: 2, Unit: UnitCup}},
		{"unit is lowercased", "3 TBSP Olive Oil", ParsedIngredient{Name: "olive oil", Quantity: 3, Unit: UnitTablespoon}},
		{"unknown unit coerced to item", "3 bags carrots", ParsedIngredient{Name: "carrots", Quantity: 3, Unit: UnitItem}},
		{"no quantity", "Salt to taste", ParsedIngredient{Name: "salt to taste", Quantity: 1, Unit: UnitItem}},
		{"plain name", "chicken breast", ParsedIngredient{Name: "chicken breast", Quantity: 1, Unit: UnitItem}},
		{"surrounding whitespace", "   1 tsp  Cumin  ", ParsedIngredient{Name: "cumin", Quantity: 1, Unit: UnitTeaspoon}},
		{"parenthetical stays in name", "100 g cheese (grated)", ParsedIngredient{Name: "cheese (grated)", Quantity: 100, Unit: UnitGram}},
		{"only the first number is captured", "2 l water or 3 l stock", ParsedIngredient{Name: "water or 3 l stock", Quantity: 2, Unit: UnitLiter}},
		{"leading number of a malformed quantity", "1.2.3 kg potatoes", ParsedIngredient{Name: "potatoes", Quantity: 1.2, Unit: UnitKilogram}},
		{"dots only fall back to one", "... kg potatoes", ParsedIngredient{Name: "potatoes", Quantity: 1, Unit: UnitKilogram}},
		{"trailing dot", "2. cup milk", ParsedIngredient{Name: "milk", Quantity: 2, Unit: UnitCup}},
		{"zero quantity falls back to one", "0 g sugar", ParsedIngredient{Name: "sugar", Quantity: 1, Unit: UnitGram}},
		{"number and word without name", "2 eggs", ParsedIngredient{Name: "2 eggs", Quantity: 1, Unit: UnitItem}},
		{"empty", "", ParsedIngredient{Name: "item", Quantity: 1, Unit: UnitItem}},
		{"whitespace only", "   ", ParsedIngredient{Name: "item", Quantity: 1, Unit: UnitItem}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIngredientLine(tt.line))
		})
	}
}

func TestParseIngredientLineIsTotal(t *testing.T) {
	inputs := []string{
		"", " ", "12345", "...", ". g x", "pure text", "1 cup", "7 pcs eggs",
		"4 large eggs", "400ml coconut milk", "½ cup sugar", "-1 g salt",
		"1e400 g dust", "\t\n", "1 piece",
	}

	for _, in := range inputs {
		got := ParseIngredientLine(in)
		assert.Greater(t, got.Quantity, 0.0, "quantity for %q", in)
		assert.True(t, got.Unit.Valid(), "unit %q for %q", got.Unit, in)
		assert.NotEmpty(t, got.Name, "name for %q", in)
	}
}
