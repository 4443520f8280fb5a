package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"mealplanner"
)

// Planner is the top-level plan generator. It drives one completion call,
// sanitizes and parses the output, and on parse failure runs a single repair
// round trip before giving up.
type Planner struct {
	client        mealplanner.CompletionClient
	mockMode      bool
	repairEnabled bool
	logger        mealplanner.GenerationLogger
}

// New initializes a planner. In mock mode the client is never called and may
// be nil.
func New(client mealplanner.CompletionClient, mockMode, repairEnabled bool, log mealplanner.GenerationLogger) *Planner {
	if log == nil {
		log = mealplanner.NewNoOpGenerationLogger()
	}
	return &Planner{
		client:        client,
		mockMode:      mockMode,
		repairEnabled: repairEnabled,
		logger:        log,
	}
}

// GenerateMealPlan produces a multi-day plan for the profile and targets.
// Extra preference text from the caller is appended to the prompt verbatim.
func (p *Planner) GenerateMealPlan(ctx context.Context, profile mealplanner.UserProfile, targets mealplanner.MacroTargets, extraPreferences string) (mealplanner.MealPlan, error) {
	if p.mockMode {
		slog.Info("PLANNER: Mock mode, returning deterministic plan")
		p.logAttempt(mealplanner.GenerationAttempt{Stage: "mock", Timestamp: time.Now(), ParseOK: true})
		return mockMealPlan(targets), nil
	}

	prompt := BuildPlanPrompt(profile, targets, extraPreferences)
	slog.Info("PLANNER: Requesting plan", "prompt_size_bytes", len(prompt))

	raw, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return mealplanner.MealPlan{}, fmt.Errorf("failed to get completion: %w", err)
	}

	sanitized := Sanitize(raw)
	plan, err := ParsePlan(sanitized, targets)
	p.logAttempt(mealplanner.GenerationAttempt{
		Stage:     "initial",
		Timestamp: time.Now(),
		Prompt:    prompt,
		RawOutput: raw,
		Sanitized: sanitized,
		ParseOK:   err == nil,
		Error:     errString(err),
	})
	if err != nil {
		if !p.repairEnabled {
			return mealplanner.MealPlan{}, err
		}
		plan, err = p.repair(ctx, raw, targets)
		if err != nil {
			return mealplanner.MealPlan{}, err
		}
	}

	fillMissingDailyTotals(&plan, targets)
	slog.Info("PLANNER: Plan generated", "days", len(plan.Days))
	return plan, nil
}

// repair sends the broken output back to the model once and re-parses.
// A second parse failure is terminal.
func (p *Planner) repair(ctx context.Context, badOutput string, targets mealplanner.MacroTargets) (mealplanner.MealPlan, error) {
	slog.Warn("PLANNER: Initial parse failed, attempting repair")

	prompt := BuildRepairPrompt(badOutput)
	raw, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return mealplanner.MealPlan{}, fmt.Errorf("failed to get repair completion: %w", err)
	}

	sanitized := Sanitize(raw)
	plan, err := ParsePlan(sanitized, targets)
	p.logAttempt(mealplanner.GenerationAttempt{
		Stage:     "repair",
		Timestamp: time.Now(),
		Prompt:    prompt,
		RawOutput: raw,
		Sanitized: sanitized,
		ParseOK:   err == nil,
		Error:     errString(err),
	})
	if err != nil {
		return mealplanner.MealPlan{}, err
	}
	return plan, nil
}

// GenerateReplacementMeal produces one meal fitting the target macros, for
// swapping out a meal the user dislikes. No repair round trip here.
func (p *Planner) GenerateReplacementMeal(ctx context.Context, target mealplanner.MacroTargets, avoidSimilarTo string) (mealplanner.Meal, error) {
	if p.mockMode {
		p.logAttempt(mealplanner.GenerationAttempt{Stage: "mock", Timestamp: time.Now(), ParseOK: true})
		return mockReplacementMeal(target), nil
	}

	prompt := BuildReplacementPrompt(target, avoidSimilarTo)
	raw, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return mealplanner.Meal{}, fmt.Errorf("failed to get completion: %w", err)
	}

	sanitized := Sanitize(raw)
	meal, err := ParseMeal(sanitized)
	p.logAttempt(mealplanner.GenerationAttempt{
		Stage:     "initial",
		Timestamp: time.Now(),
		Prompt:    prompt,
		RawOutput: raw,
		Sanitized: sanitized,
		ParseOK:   err == nil,
		Error:     errString(err),
	})
	if err != nil {
		return mealplanner.Meal{}, err
	}
	return meal, nil
}

func (p *Planner) logAttempt(attempt mealplanner.GenerationAttempt) {
	if err := p.logger.LogAttempt(attempt); err != nil {
		slog.Warn("PLANNER: Failed to log attempt", "error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// fillMissingDailyTotals replaces an absent dailyTotal with the sum of the
// day's meal macros, or with the requested targets when every meal macro is
// zero or absent.
func fillMissingDailyTotals(plan *mealplanner.MealPlan, targets mealplanner.MacroTargets) {
	for i := range plan.Days {
		day := &plan.Days[i]
		if day.DailyTotal != nil {
			continue
		}
		var sum mealplanner.MacroTargets
		for _, meal := range day.Meals {
			if meal.Macros != nil {
				sum = sum.Add(*meal.Macros)
			}
		}
		if sum.IsZero() {
			sum = targets
		}
		total := sum
		day.DailyTotal = &total
	}
}

// mockMealPlan is a fixed 3-day plan used when mock mode is enabled, so the
// surrounding system can be exercised without network access or API cost.
// Macros split 25% breakfast, 30% lunch, 15% snack, 30% dinner.
func mockMealPlan(targets mealplanner.MacroTargets) mealplanner.MealPlan {
	plan := mealplanner.MealPlan{DailyTargets: targets}

	for d := 1; d <= 3; d++ {
		breakfast := scaleTargets(targets, 0.25)
		lunch := scaleTargets(targets, 0.30)
		snack := scaleTargets(targets, 0.15)
		dinner := scaleTargets(targets, 0.30)

		dayTotal := targets
		day := mealplanner.Day{
			DayNumber:  d,
			DailyTotal: &dayTotal,
			Meals: []mealplanner.Meal{
				mockMeal("Breakfast", breakfast, []mealplanner.FoodItem{
					{Item: "Scrambled eggs", Portion: "3 large"},
					{Item: "Oatmeal", Portion: "1 cup cooked"},
					{Item: "Banana", Portion: "1 medium"},
					{Item: "Whole milk", Portion: "1 cup"},
				}),
				mockMeal("Lunch", lunch, []mealplanner.FoodItem{
					{Item: "Grilled chicken breast", Portion: "6 oz"},
					{Item: "Brown rice", Portion: "1.5 cups cooked"},
					{Item: "Broccoli", Portion: "1 cup"},
					{Item: "Olive oil", Portion: "1 tbsp"},
				}),
				mockMeal("Snack", snack, []mealplanner.FoodItem{
					{Item: "Greek yogurt (plain)", Portion: "1 cup"},
					{Item: "Mixed berries", Portion: "1 cup"},
					{Item: "Almond butter", Portion: "1 tbsp"},
				}),
				mockMeal("Dinner", dinner, []mealplanner.FoodItem{
					{Item: "Grilled salmon", Portion: "6 oz"},
					{Item: "Sweet potato", Portion: "1 large"},
					{Item: "Mixed vegetables", Portion: "2 cups"},
					{Item: "Olive oil", Portion: "1 tbsp"},
				}),
			},
		}
		plan.Days = append(plan.Days, day)
	}

	return plan
}

func mockMeal(name string, macros mealplanner.MacroTargets, foods []mealplanner.FoodItem) mealplanner.Meal {
	ingredients := make([]string, 0, len(foods))
	for _, f := range foods {
		ingredients = append(ingredients, f.Portion+" "+f.Item)
	}
	m := macros
	return mealplanner.Meal{
		Name:   name,
		Foods:  foods,
		Macros: &m,
		Recipe: &mealplanner.Recipe{
			Name:        name + " - Simple Prep",
			Ingredients: ingredients,
			Instructions: []string{
				"Gather ingredients",
				"Cook proteins as you like",
				"Cook grains per package",
				"Steam or microwave veggies",
				"Plate and season to taste",
			},
			PrepTime:  "5 mins",
			CookTime:  "15 mins",
			TotalTime: "20 mins",
		},
	}
}

func mockReplacementMeal(target mealplanner.MacroTargets) mealplanner.Meal {
	return mockMeal("Balanced Bowl", target, []mealplanner.FoodItem{
		{Item: "Grilled chicken breast", Portion: "6 oz"},
		{Item: "Quinoa", Portion: "1 cup cooked"},
		{Item: "Roasted vegetables", Portion: "1.5 cups"},
		{Item: "Olive oil", Portion: "1 tbsp"},
	})
}

func scaleTargets(t mealplanner.MacroTargets, fraction float64) mealplanner.MacroTargets {
	return mealplanner.MacroTargets{
		Calories: int(math.Round(float64(t.Calories) * fraction)),
		Protein:  int(math.Round(float64(t.Protein) * fraction)),
		Carbs:    int(math.Round(float64(t.Carbs) * fraction)),
		Fat:      int(math.Round(float64(t.Fat) * fraction)),
	}
}
