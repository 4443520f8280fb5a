package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyItem(t *testing.T) {
	tests := []struct {
		item string
		want string
	}{
		{"Chicken", CategoryProteins},
		{"Ground Turkey", CategoryProteins},
		{"Salmon", CategoryProteins},
		{"Egg", CategoryProteins},
		{"Milk", CategoryDairy},
		{"Greek Yogurt", CategoryDairy},
		{"Cottage Cheese", CategoryDairy},
		{"Broccoli", CategoryProduce},
		{"Banana", CategoryProduce},
		{"Berries", CategoryProduce},
		{"Strawberries", CategoryProduce},
		{"Bell Pepper", CategoryProduce},
		{"Rice", CategoryGrains},
		{"Sweet Potato", CategoryGrains},
		{"Oatmeal", CategoryGrains},
		{"Olive Oil", CategoryPantry},
		{"Almond Butter", CategoryPantry},
		{"Garlic", CategoryPantry},
		{"Sparkling Water", CategoryOther},
		{"Protein Bar", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyItem(tt.item))
		})
	}
}

// Classification holds for canonicalized names too. The singularizer keeps
// the "ies" suffix, so the keyword list must match "berries" itself, not just
// the singular "berry".
func TestClassifyItem_CanonicalForms(t *testing.T) {
	assert.Equal(t, CategoryProduce, ClassifyItem(CanonicalizeItem("Mixed berries")))
	assert.Equal(t, CategoryProduce, ClassifyItem(CanonicalizeItem("Fresh blueberries")))
	assert.Equal(t, CategoryProteins, ClassifyItem(CanonicalizeItem("Grilled chicken breast")))
}

// Every item lands in exactly one category; unmatched items always fall to
// Other, never to an empty string.
func TestClassifyItem_Exhaustive(t *testing.T) {
	known := map[string]bool{
		CategoryProteins: true,
		CategoryDairy:    true,
		CategoryProduce:  true,
		CategoryGrains:   true,
		CategoryPantry:   true,
		CategoryOther:    true,
	}
	for _, item := range []string{"Chicken", "Milk", "Banana", "Rice", "Olive Oil", "Mystery Snack", "", "xyzzy"} {
		cat := ClassifyItem(item)
		assert.True(t, known[cat], "item %q classified to unknown category %q", item, cat)
	}
}
