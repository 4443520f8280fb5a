package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner"
)

func TestParsePlan_Strict(t *testing.T) {
	text := `{
		"days": [
			{
				"day": 1,
				"meals": [
					{
						"name": "Breakfast",
						"foods": [{"item": "Oatmeal", "portion": "1 cup"}],
						"macros": {"calories": 450, "protein": 25, "carbs": 60, "fat": 12}
					}
				],
				"dailyTotals": {"calories": 450, "protein": 25, "carbs": 60, "fat": 12}
			}
		]
	}`
	targets := mealplanner.MacroTargets{Calories: 2000, Protein: 150, Carbs: 200, Fat: 60}

	plan, err := ParsePlan(text, targets)
	require.NoError(t, err)

	assert.Equal(t, targets, plan.DailyTargets)
	require.Len(t, plan.Days, 1)
	assert.Equal(t, 1, plan.Days[0].DayNumber)
	require.NotNil(t, plan.Days[0].DailyTotal)
	assert.Equal(t, 450, plan.Days[0].DailyTotal.Calories)
	require.Len(t, plan.Days[0].Meals, 1)
	meal := plan.Days[0].Meals[0]
	assert.Equal(t, "Breakfast", meal.Name)
	require.NotNil(t, meal.Macros)
	assert.Equal(t, 25, meal.Macros.Protein)
	require.Len(t, meal.Foods, 1)
	assert.Equal(t, mealplanner.FoodItem{Item: "Oatmeal", Portion: "1 cup"}, meal.Foods[0])
}

func TestParsePlan_LenientSynonyms(t *testing.T) {
	// Same plan as the canonical schema, expressed entirely through synonym
	// keys. Must parse to the identical shape.
	text := `{
		"plan": [
			{
				"dayNumber": 1,
				"meals": [
					{
						"meal": "Breakfast",
						"items": [{"name": "Oatmeal", "quantity": "1 cup"}],
						"nutrients": {"kcal": 450, "proteins": 25, "carbohydrates": 60, "fats": 12}
					}
				],
				"totals": {"kcal": 450, "proteins": 25, "carbohydrates": 60, "fats": 12}
			}
		]
	}`
	targets := mealplanner.MacroTargets{Calories: 2000, Protein: 150, Carbs: 200, Fat: 60}

	plan, err := ParsePlan(text, targets)
	require.NoError(t, err)

	require.Len(t, plan.Days, 1)
	day := plan.Days[0]
	assert.Equal(t, 1, day.DayNumber)
	require.NotNil(t, day.DailyTotal)
	assert.Equal(t, mealplanner.MacroTargets{Calories: 450, Protein: 25, Carbs: 60, Fat: 12}, *day.DailyTotal)
	require.Len(t, day.Meals, 1)
	meal := day.Meals[0]
	assert.Equal(t, "Breakfast", meal.Name)
	require.NotNil(t, meal.Macros)
	assert.Equal(t, mealplanner.MacroTargets{Calories: 450, Protein: 25, Carbs: 60, Fat: 12}, *meal.Macros)
	require.Len(t, meal.Foods, 1)
	assert.Equal(t, mealplanner.FoodItem{Item: "Oatmeal", Portion: "1 cup"}, meal.Foods[0])
}

func TestParsePlan_LenientDefaults(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		verify func(t *testing.T, plan mealplanner.MealPlan)
	}{
		{
			name:  "missing day numbers get running count",
			input: `{"days": [{"meals": []}, {"meals": []}, {"meals": []}]}`,
			verify: func(t *testing.T, plan mealplanner.MealPlan) {
				require.Len(t, plan.Days, 3)
				for i, d := range plan.Days {
					assert.Equal(t, i+1, d.DayNumber)
				}
			},
		},
		{
			name:  "unnamed meal defaults to Meal",
			input: `{"days": [{"day": 1, "meals": [{"foods": []}]}]}`,
			verify: func(t *testing.T, plan mealplanner.MealPlan) {
				require.Len(t, plan.Days[0].Meals, 1)
				assert.Equal(t, "Meal", plan.Days[0].Meals[0].Name)
			},
		},
		{
			name:  "bare string foods",
			input: `{"days": [{"day": 1, "meals": [{"name": "Lunch", "foods": ["Banana", "Almonds"]}]}]}`,
			verify: func(t *testing.T, plan mealplanner.MealPlan) {
				foods := plan.Days[0].Meals[0].Foods
				require.Len(t, foods, 2)
				assert.Equal(t, mealplanner.FoodItem{Item: "Banana"}, foods[0])
				assert.Equal(t, mealplanner.FoodItem{Item: "Almonds"}, foods[1])
			},
		},
		{
			name:  "numeric macro strings are stripped",
			input: `{"days": [{"day": 1, "meals": [{"name": "Lunch", "foods": [], "macros": {"calories": "450 kcal", "protein": "30g"}}]}]}`,
			verify: func(t *testing.T, plan mealplanner.MealPlan) {
				m := plan.Days[0].Meals[0].Macros
				require.NotNil(t, m)
				assert.Equal(t, 450, m.Calories)
				assert.Equal(t, 30, m.Protein)
				assert.Equal(t, 0, m.Carbs)
			},
		},
		{
			name:  "missing macros stay nil",
			input: `{"days": [{"day": 1, "meals": [{"name": "Lunch", "foods": []}]}]}`,
			verify: func(t *testing.T, plan mealplanner.MealPlan) {
				assert.Nil(t, plan.Days[0].Meals[0].Macros)
				assert.Nil(t, plan.Days[0].DailyTotal)
			},
		},
		{
			name:  "recipe carried through",
			input: `{"days": [{"dayNumber": 1, "meals": [{"name": "Dinner", "foods": [], "recipe": {"title": "Salmon bowl", "ingredients": ["salmon", "rice"], "instructions": ["cook"], "prepTime": "10 min"}}]}]}`,
			verify: func(t *testing.T, plan mealplanner.MealPlan) {
				require.Equal(t, 1, plan.Days[0].DayNumber)
				r := plan.Days[0].Meals[0].Recipe
				require.NotNil(t, r)
				assert.Equal(t, "Salmon bowl", r.Name)
				assert.Equal(t, []string{"salmon", "rice"}, r.Ingredients)
				assert.Equal(t, "10 min", r.PrepTime)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParsePlan(tt.input, mealplanner.MacroTargets{})
			require.NoError(t, err)
			tt.verify(t, plan)
		})
	}
}

func TestParsePlan_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not JSON", input: "I am sorry, I cannot do that."},
		{name: "no days array", input: `{"message": "here is your plan"}`},
		{name: "days is not an array", input: `{"days": "three"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(tt.input, mealplanner.MacroTargets{})
			require.Error(t, err)
			var perr *mealplanner.ParseError
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Excerpt)
		})
	}
}

func TestParsePlan_ExcerptTruncated(t *testing.T) {
	long := "x"
	for len(long) < 500 {
		long += long
	}
	_, err := ParsePlan(long, mealplanner.MacroTargets{})
	require.Error(t, err)
	var perr *mealplanner.ParseError
	require.ErrorAs(t, err, &perr)
	assert.LessOrEqual(t, len(perr.Excerpt), 300)
}
