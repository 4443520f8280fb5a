package planner

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"

	"mealplanner"
)

// Synonym key lists for the lenient pass, in priority order.
var (
	dayNumberKeys   = []string{"day", "dayNumber", "index", "day_index"}
	dailyTotalKeys  = []string{"dailyTotals", "dailyTotal", "totals"}
	mealNameKeys    = []string{"name", "meal", "title"}
	macrosBlockKeys = []string{"macros", "macro", "nutrients"}
	caloriesKeys    = []string{"calories", "kcals", "kcal"}
	proteinKeys     = []string{"protein", "proteins"}
	carbsKeys       = []string{"carbs", "carbohydrates"}
	fatKeys         = []string{"fat", "fats"}
	foodsKeys       = []string{"foods", "items", "ingredients"}
	foodItemKeys    = []string{"item", "name", "ingredient"}
	foodPortionKeys = []string{"portion", "quantity", "amount"}
	recipeNameKeys  = []string{"name", "title"}
)

// ParsePlan decodes sanitized JSON into a MealPlan. It tries a strict
// schema-bound decode first and falls back to a lenient tree walk that
// tolerates synonym keys and missing fields. Targets become the plan's
// DailyTargets and are also used downstream as a fill value.
func ParsePlan(text string, targets mealplanner.MacroTargets) (mealplanner.MealPlan, error) {
	if plan, ok := parseStrict(text, targets); ok {
		return plan, nil
	}
	return parseLenient(text, targets)
}

// parseStrict decodes directly into the canonical shape. Unknown fields are
// ignored, so a decode that "succeeds" on synonym-keyed JSON comes back
// structurally empty; the validity check routes those to the lenient pass.
func parseStrict(text string, targets mealplanner.MacroTargets) (mealplanner.MealPlan, bool) {
	var plan mealplanner.MealPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return mealplanner.MealPlan{}, false
	}
	plan.DailyTargets = targets
	if !plan.IsValid() {
		return mealplanner.MealPlan{}, false
	}
	return plan, true
}

func parseLenient(text string, targets mealplanner.MacroTargets) (mealplanner.MealPlan, error) {
	if !gjson.Valid(text) {
		return mealplanner.MealPlan{}, mealplanner.NewParseError(text, errors.New("not valid JSON"))
	}
	root := gjson.Parse(text)

	daysNode := root.Get("days")
	if !daysNode.Exists() {
		daysNode = root.Get("plan")
	}
	if !daysNode.IsArray() {
		return mealplanner.MealPlan{}, mealplanner.NewParseError(text, errors.New("no days array"))
	}

	plan := mealplanner.MealPlan{DailyTargets: targets}
	for _, d := range daysNode.Array() {
		day := mealplanner.Day{
			DayNumber:  intOf(d, dayNumberKeys, len(plan.Days)+1),
			DailyTotal: macrosOf(firstKey(d, dailyTotalKeys)),
		}
		for _, m := range d.Get("meals").Array() {
			meal := mealplanner.Meal{
				Name:   textOf(m, mealNameKeys, "Meal"),
				Macros: macrosOf(firstKey(m, macrosBlockKeys)),
				Recipe: recipeOf(m.Get("recipe")),
			}
			for _, f := range firstKey(m, foodsKeys).Array() {
				if f.Type == gjson.String {
					meal.Foods = append(meal.Foods, mealplanner.FoodItem{Item: f.String()})
					continue
				}
				meal.Foods = append(meal.Foods, mealplanner.FoodItem{
					Item:    textOf(f, foodItemKeys, ""),
					Portion: textOf(f, foodPortionKeys, ""),
				})
			}
			day.Meals = append(day.Meals, meal)
		}
		plan.Days = append(plan.Days, day)
	}
	return plan, nil
}

// ParseMeal decodes a single replacement meal. The tree walk is always
// lenient; single-meal output is small enough that synonym tolerance costs
// nothing.
func ParseMeal(text string) (mealplanner.Meal, error) {
	if !gjson.Valid(text) {
		return mealplanner.Meal{}, mealplanner.NewParseError(text, errors.New("not valid JSON"))
	}
	root := gjson.Parse(text)
	if !root.IsObject() {
		return mealplanner.Meal{}, mealplanner.NewParseError(text, errors.New("not a JSON object"))
	}

	meal := mealplanner.Meal{
		Name:   textOf(root, []string{"name"}, "Meal"),
		Macros: macrosOf(firstKey(root, macrosBlockKeys)),
		Recipe: recipeOf(root.Get("recipe")),
	}
	for _, f := range root.Get("foods").Array() {
		item := textOf(f, foodItemKeys, "")
		if item == "" {
			continue
		}
		meal.Foods = append(meal.Foods, mealplanner.FoodItem{
			Item:    item,
			Portion: textOf(f, foodPortionKeys, ""),
		})
	}
	if meal.Macros == nil {
		meal.Macros = &mealplanner.MacroTargets{}
	}
	if meal.Recipe != nil && meal.Recipe.Name == "" {
		meal.Recipe.Name = meal.Name
	}
	return meal, nil
}

func recipeOf(node gjson.Result) *mealplanner.Recipe {
	if !node.Exists() || node.Type == gjson.Null {
		return nil
	}
	r := &mealplanner.Recipe{
		Name:      textOf(node, recipeNameKeys, ""),
		PrepTime:  node.Get("prepTime").String(),
		CookTime:  node.Get("cookTime").String(),
		TotalTime: node.Get("totalTime").String(),
	}
	for _, n := range node.Get("ingredients").Array() {
		r.Ingredients = append(r.Ingredients, n.String())
	}
	for _, n := range node.Get("instructions").Array() {
		r.Instructions = append(r.Instructions, n.String())
	}
	return r
}

func macrosOf(node gjson.Result) *mealplanner.MacroTargets {
	if !node.Exists() || node.Type == gjson.Null {
		return nil
	}
	return &mealplanner.MacroTargets{
		Calories: intOf(node, caloriesKeys, 0),
		Protein:  intOf(node, proteinKeys, 0),
		Carbs:    intOf(node, carbsKeys, 0),
		Fat:      intOf(node, fatKeys, 0),
	}
}

// firstKey returns the first present, non-null child among the synonym keys.
func firstKey(node gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if c := node.Get(k); c.Exists() && c.Type != gjson.Null {
			return c
		}
	}
	return gjson.Result{}
}

func textOf(node gjson.Result, keys []string, def string) string {
	if node.Type == gjson.String {
		return node.String()
	}
	if c := firstKey(node, keys); c.Exists() {
		return c.String()
	}
	return def
}

var nonDigits = regexp.MustCompile(`[^0-9-]`)

// intOf resolves an int from the node itself if numeric, else from the first
// synonym key holding a number or a numeric-looking string ("450 kcal").
func intOf(node gjson.Result, keys []string, def int) int {
	if node.Type == gjson.Number {
		return int(node.Int())
	}
	for _, k := range keys {
		c := node.Get(k)
		if !c.Exists() {
			continue
		}
		switch c.Type {
		case gjson.Number:
			return int(c.Int())
		case gjson.String:
			if n, err := strconv.Atoi(nonDigits.ReplaceAllString(c.String(), "")); err == nil {
				return n
			}
		}
	}
	return def
}
