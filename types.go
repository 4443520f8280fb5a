package mealplanner

import (
	"context"
	"net/http"
)

// HTTPClient is the outbound HTTP dependency used by provider clients.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CompletionClient performs one model completion call. Implementations live
// under provider/ and handle their own envelope unwrapping and model
// fallback.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces meal plans and replacement meals.
type Generator interface {
	GenerateMealPlan(ctx context.Context, profile UserProfile, targets MacroTargets, extraPreferences string) (MealPlan, error)
	GenerateReplacementMeal(ctx context.Context, target MacroTargets, avoidSimilarTo string) (Meal, error)
}

// MacroTargets is a daily (or per-meal) macro budget. Calories are kcal,
// the rest are grams.
type MacroTargets struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// IsZero reports whether every field is zero.
func (m MacroTargets) IsZero() bool {
	return m.Calories == 0 && m.Protein == 0 && m.Carbs == 0 && m.Fat == 0
}

// Add returns the field-wise sum of m and other.
func (m MacroTargets) Add(other MacroTargets) MacroTargets {
	return MacroTargets{
		Calories: m.Calories + other.Calories,
		Protein:  m.Protein + other.Protein,
		Carbs:    m.Carbs + other.Carbs,
		Fat:      m.Fat + other.Fat,
	}
}

// UserProfile is the read-only input to prompt construction. Weight is in
// pounds, height in feet+inches.
type UserProfile struct {
	Weight        float64  `json:"weight"`
	HeightFeet    int      `json:"heightFeet"`
	HeightInches  int      `json:"heightInches"`
	Age           int      `json:"age"`
	Sex           string   `json:"sex"`
	ActivityLevel string   `json:"activityLevel"`
	FitnessGoal   string   `json:"fitnessGoal"`
	Allergies     []string `json:"allergies"`
}

// FoodItem is a single food entry in a meal. Portion is unparsed free text
// ("6 oz", "1 large") and may be empty.
type FoodItem struct {
	Item    string `json:"item"`
	Portion string `json:"portion"`
}

// Recipe is purely descriptive and never aggregated.
type Recipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	TotalTime    string   `json:"totalTime"`
}

// Meal is one meal of a day. Macros may be nil when the model omits them;
// they are never synthesized except by the daily-total fill.
type Meal struct {
	Name   string        `json:"name"`
	Foods  []FoodItem    `json:"foods"`
	Macros *MacroTargets `json:"macros,omitempty"`
	Recipe *Recipe       `json:"recipe,omitempty"`
}

// Day is one day of a plan. DayNumber is 1-based.
type Day struct {
	DayNumber  int           `json:"day"`
	Meals      []Meal        `json:"meals"`
	DailyTotal *MacroTargets `json:"dailyTotals,omitempty"`
}

// MealPlan is the full multi-day plan. Created fresh per generation request
// and immutable once returned.
type MealPlan struct {
	Days         []Day        `json:"days"`
	DailyTargets MacroTargets `json:"dailyTargets"`
}

// IsValid checks if the MealPlan meets basic structural requirements: at
// least one day, every day numbered and holding at least one meal, and every
// meal named with no empty food item names.
func (p *MealPlan) IsValid() bool {
	if len(p.Days) == 0 {
		return false
	}

	for _, day := range p.Days {
		if day.DayNumber < 1 || len(day.Meals) == 0 {
			return false
		}
		for _, meal := range day.Meals {
			if meal.Name == "" {
				return false
			}
			for _, food := range meal.Foods {
				if food.Item == "" {
					return false
				}
			}
		}
	}

	return true
}

// GroceryCategory is one category section of a grocery list. Lines preserve
// first-seen item order within the category.
type GroceryCategory struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// GroceryList is the categorized shopping list derived from a plan.
// Categories preserve first-seen order during aggregation.
type GroceryList struct {
	Categories []GroceryCategory `json:"categories"`
}

// Lines returns the lines for a named category, or nil if absent.
func (g GroceryList) Lines(category string) []string {
	for _, c := range g.Categories {
		if c.Name == category {
			return c.Lines
		}
	}
	return nil
}
