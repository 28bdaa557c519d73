package shopping

import "strings"

// Category groups shopping list items by store section.
type Category string

const (
	CategoryVegetables Category = "Vegetables"
	CategoryFruits     Category = "Fruits"
	CategoryDairy      Category = "Dairy"
	CategoryMeat       Category = "Meat & Poultry"
	CategorySeafood    Category = "Seafood"
	CategoryGrains     Category = "Grains & Cereals"
	CategorySpices     Category = "Spices & Seasonings"
	CategoryOils       Category = "Oils & Condiments"
	CategoryBeverages  Category = "Beverages"
	CategoryOther      Category = "Other"
)

// Categories lists every category value in display order.
var Categories = []Category{
	CategoryVegetables,
	CategoryFruits,
	CategoryDairy,
	CategoryMeat,
	CategorySeafood,
	CategoryGrains,
	CategorySpices,
	CategoryOils,
	CategoryBeverages,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type keywordSet struct {
	category Category
	keywords []string
}

// Checked in order; the first category with a matching keyword wins, so
// "black pepper" lands in Vegetables and "cream sauce" in Dairy.
// Beverages has no keywords and is never assigned automatically.
var keywordSets = []keywordSet{
	{CategoryVegetables, []string{
		"potato", "carrot", "onion", "garlic", "broccoli", "spinach",
		"tomato", "pepper", "cucumber", "lettuce", "cabbage",
	}},
	{CategoryFruits, []string{
		"apple", "banana", "orange", "lemon", "strawberry", "blueberry",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "yogurt", "butter", "cream", "mozzarella", "feta",
	}},
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "turkey", "ham", "bacon", "sausage",
		"guanciale", "pancetta",
	}},
	{CategorySeafood, []string{
		"fish", "salmon", "shrimp", "crab", "lobster",
	}},
	{CategoryGrains, []string{
		"rice", "pasta", "bread", "flour", "wheat", "quinoa", "oats", "cereal",
	}},
	{CategorySpices, []string{
		"salt", "pepper", "cinnamon", "cumin", "paprika", "oregano", "basil", "thyme",
	}},
	{CategoryOils, []string{
		"oil", "vinegar", "soy sauce", "sauce", "dressing",
	}},
}

// Categorize assigns a category to an ingredient name by keyword containment.
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, set := range keywordSets {
		for _, k := range set.keywords {
			if strings.Contains(lower, k) {
				return set.category
			}
		}
	}
	return CategoryOther
}
