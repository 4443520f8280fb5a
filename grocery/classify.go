package grocery

import "strings"

// The six grocery categories, checked in this order. The first category with
// a keyword substring match wins; anything unmatched falls to Other.
const (
	CategoryProteins = "Proteins"
	CategoryDairy    = "Dairy"
	CategoryProduce  = "Produce"
	CategoryGrains   = "Grains"
	CategoryPantry   = "Pantry"
	CategoryOther    = "Other"
)

var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{CategoryProteins, []string{"chicken", "turkey", "beef", "pork", "salmon", "tuna", "cod", "tilapia", "shrimp", "egg"}},
	{CategoryDairy, []string{"milk", "yogurt", "greek yogurt", "cottage", "cheese", "dairy"}},
	{CategoryProduce, []string{"broccoli", "spinach", "kale", "asparagus", "pepper", "tomato", "carrot", "cauliflower", "brussels", "bean", "zucchini", "cucumber", "banana", "apple", "berry", "berries", "orange", "grape", "watermelon"}},
	{CategoryGrains, []string{"rice", "quinoa", "oat", "bread", "pasta", "potato", "sweet potato"}},
	{CategoryPantry, []string{"olive oil", "oil", "salt", "pepper", "garlic", "onion", "spice", "butter", "almond", "peanut", "nut"}},
}

// ClassifyItem buckets a canonicalized item into one of the six categories.
func ClassifyItem(item string) string {
	s := strings.ToLower(item)
	for _, cat := range categoryKeywords {
		for _, kw := range cat.keywords {
			if strings.Contains(s, kw) {
				return cat.name
			}
		}
	}
	return CategoryOther
}
