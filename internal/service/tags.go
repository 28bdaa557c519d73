package service

import (
	"regexp"
	"strings"
)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	numberPattern        = regexp.MustCompile(`\b\d+[\d/.]*\b`)
	unitWordPattern      = regexp.MustCompile(`\b(cups?|tbsp|tablespoons?|tsp|teaspoons?|grams?|g|kg|ml|l|oz|ounces?|pounds?|lbs?)\b`)
	nonLetterPattern     = regexp.MustCompile(`[^a-z\s]`)
)

var tagStopWords = map[string]struct{}{
	"and": {}, "or": {}, "of": {}, "the": {}, "a": {}, "an": {}, "fresh": {},
	"large": {}, "small": {}, "chopped": {}, "diced": {}, "minced": {}, "to": {},
	"taste": {}, "optional": {}, "into": {}, "for": {}, "with": {}, "in": {},
	"on": {}, "about": {},
}

// IngredientTokens reduces free text to the searchable words it mentions:
// no quantities, units, punctuation, stop words or words under three letters.
func IngredientTokens(text string) []string {
	s := strings.ToLower(text)
	s = parentheticalPattern.ReplaceAllString(s, " ")
	s = numberPattern.ReplaceAllString(s, " ")
	s = unitWordPattern.ReplaceAllString(s, " ")
	s = nonLetterPattern.ReplaceAllString(s, " ")

	var out []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := tagStopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// BuildIngredientTags collects the de-duplicated tokens of every ingredient
// line, in first-seen order.
func BuildIngredientTags(ingredients []string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, line := range ingredients {
		for _, tok := range IngredientTokens(line) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			tags = append(tags, tok)
		}
	}
	return tags
}
