package shopping

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit is a shopping list measurement unit.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitPiece      Unit = "piece"
	UnitPieces     Unit = "pcs"
	UnitItem       Unit = "item"
)

var validUnits = map[Unit]struct{}{
	UnitGram:       {},
	UnitKilogram:   {},
	UnitMilliliter: {},
	UnitLiter:      {},
	UnitCup:        {},
	UnitTablespoon: {},
	UnitTeaspoon:   {},
	UnitPiece:      {},
	UnitPieces:     {},
	UnitItem:       {},
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	_, ok := validUnits[u]
	return ok
}

// placeholderName is used when a line carries no text at all.
const placeholderName = "item"

// <number><optional space><unit word><space><name...>
var (
	ingredientPattern = regexp.MustCompile(`^([\d.]+)\s*(\w+)\s+(.+)$`)
	leadingNumber     = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// ParsedIngredient is one ingredient line broken into quantity, unit and name.
type ParsedIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
}

// ParseIngredientLine converts a free-text ingredient line such as
// "1.5 cups flour" or "Salt to taste" into a ParsedIngredient.
//
// Parsing is best effort and never fails: anything that does not look like
// "<number> <unit> <name>" becomes a single item named after the whole line.
func ParseIngredientLine(line string) ParsedIngredient {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ParsedIngredient{Name: placeholderName, Quantity: 1, Unit: UnitItem}
	}

	m := ingredientPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return ParsedIngredient{Name: Normalize(trimmed), Quantity: 1, Unit: UnitItem}
	}

	return ParsedIngredient{
		Name:     Normalize(m[3]),
		Quantity: parseQuantity(m[1]),
		Unit:     parseUnit(m[2]),
	}
}

// Normalize lowercases and trims an ingredient name.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parseQuantity reads the leading decimal number, so "1.2.3" is 1.2.
func parseQuantity(s string) float64 {
	q, err := strconv.ParseFloat(leadingNumber.FindString(s), 64)
	if err != nil || q <= 0 || math.IsInf(q, 0) || math.IsNaN(q) {
		return 1
	}
	return q
}

func parseUnit(s string) Unit {
	u := Unit(Normalize(s))
	if u.Valid() {
		return u
	}
	// "cups", "tbsps", "pieces" fold onto their singular form.
	if singular := Unit(strings.TrimSuffix(string(u), "s")); singular != u && singular.Valid() {
		return singular
	}
	return UnitItem
}
