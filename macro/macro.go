// Package macro derives daily macro targets from a user profile: BMR by one
// of three formulas, activity-scaled TDEE, goal adjustment, and a calorie
// split into protein/carbs/fat grams.
package macro

import (
	"fmt"
	"math"
	"strings"

	"mealplanner"
)

// BMR formulas.
const (
	FormulaMifflinStJeor  = "mifflin-st-jeor"
	FormulaHarrisBenedict = "harris-benedict"
	FormulaKatchMcArdle   = "katch-mcardle"
)

func PoundsToKg(lbs float64) float64 {
	return lbs * 0.45359237
}

func HeightToCm(feet, inches int) float64 {
	return float64(feet)*30.48 + float64(inches)*2.54
}

// BMR computes basal metabolic rate with the default Mifflin-St Jeor
// formula.
func BMR(weightLbs float64, heightFeet, heightInches, age int, sex string) float64 {
	bmr, _ := BMRByFormula(FormulaMifflinStJeor, weightLbs, heightFeet, heightInches, age, sex, nil)
	return bmr
}

// BMRByFormula computes basal metabolic rate with the named formula.
// Katch-McArdle requires a body fat percentage between 5 and 50; the other
// formulas ignore it.
func BMRByFormula(formula string, weightLbs float64, heightFeet, heightInches, age int, sex string, bodyFatPercentage *float64) (float64, error) {
	f := strings.ToLower(strings.TrimSpace(formula))
	if f == "" {
		f = FormulaMifflinStJeor
	}
	weightKg := PoundsToKg(weightLbs)
	heightCm := HeightToCm(heightFeet, heightInches)

	switch f {
	case FormulaHarrisBenedict:
		if strings.EqualFold(sex, "male") {
			return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*float64(age), nil
		}
		return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*float64(age), nil
	case FormulaKatchMcArdle:
		if bodyFatPercentage == nil {
			return 0, fmt.Errorf("body fat percentage is required for Katch-McArdle formula")
		}
		if *bodyFatPercentage < 5 || *bodyFatPercentage > 50 {
			return 0, fmt.Errorf("body fat percentage must be between 5%% and 50%%")
		}
		leanBodyMassKg := weightKg * (1 - *bodyFatPercentage/100)
		return 370 + 21.6*leanBodyMassKg, nil
	default:
		base := 10*weightKg + 6.25*heightCm - 5*float64(age)
		if strings.EqualFold(sex, "female") {
			return base - 161, nil
		}
		return base + 5, nil
	}
}

// activityMultipliers includes legacy labels as synonyms so profiles saved
// under old UI wording keep working.
var activityMultipliers = map[string]float64{
	"sedentary":                               1.2,
	"occasionally active":                     1.375,
	"lightly active":                          1.375,
	"lightly active (exercise 1-2x a week)":   1.375,
	"moderately active":                       1.55,
	"moderately active(exercise 3x a week)":   1.55,
	"very active":                             1.725,
	"very active(exercise 4-5x a week)":       1.725,
	"extremely active":                        1.9,
	"extremely active (exercise 5-7x a week)": 1.9,
}

// TDEE scales BMR by the activity level multiplier. Unknown levels fall back
// to sedentary.
func TDEE(bmr float64, activityLevel string) float64 {
	multiplier, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(activityLevel))]
	if !ok {
		multiplier = 1.2
	}
	return bmr * multiplier
}

// AdjustForGoal applies a 350 kcal deficit or surplus midpoint depending on
// the goal wording. Anything else maintains.
func AdjustForGoal(tdee float64, goal string) float64 {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "lose"):
		return tdee - 350
	case strings.Contains(g, "build"), strings.Contains(g, "gain"):
		return tdee + 350
	}
	return tdee
}

// Targets splits target calories into macros with the default 30/40/30
// protein/carbs/fat split.
func Targets(targetCalories float64) mealplanner.MacroTargets {
	return split(targetCalories, 30, 40, 30)
}

// TargetsWithSplit splits target calories with custom percentages. The three
// must total 100, with protein 20-50%, carbs 20-60% and fat 15-45%.
func TargetsWithSplit(totalCalories float64, proteinPercent, carbsPercent, fatPercent int) (mealplanner.MacroTargets, error) {
	total := proteinPercent + carbsPercent + fatPercent
	if total != 100 {
		return mealplanner.MacroTargets{}, fmt.Errorf("macro percentages must total 100%%, got %d%%", total)
	}
	if proteinPercent < 20 || proteinPercent > 50 {
		return mealplanner.MacroTargets{}, fmt.Errorf("protein must be between 20%% and 50%%, got %d%%", proteinPercent)
	}
	if carbsPercent < 20 || carbsPercent > 60 {
		return mealplanner.MacroTargets{}, fmt.Errorf("carbs must be between 20%% and 60%%, got %d%%", carbsPercent)
	}
	if fatPercent < 15 || fatPercent > 45 {
		return mealplanner.MacroTargets{}, fmt.Errorf("fat must be between 15%% and 45%%, got %d%%", fatPercent)
	}
	return split(totalCalories, proteinPercent, carbsPercent, fatPercent), nil
}

// TargetsForProfile runs the whole pipeline for a profile: BMR, TDEE, goal
// adjustment and the default split.
func TargetsForProfile(profile mealplanner.UserProfile) mealplanner.MacroTargets {
	bmr := BMR(profile.Weight, profile.HeightFeet, profile.HeightInches, profile.Age, profile.Sex)
	tdee := TDEE(bmr, profile.ActivityLevel)
	return Targets(AdjustForGoal(tdee, profile.FitnessGoal))
}

// Protein and carbs at 4 kcal per gram, fat at 9.
func split(calories float64, proteinPercent, carbsPercent, fatPercent int) mealplanner.MacroTargets {
	return mealplanner.MacroTargets{
		Calories: int(math.Round(calories)),
		Protein:  int(math.Round(calories * float64(proteinPercent) / 100 / 4)),
		Carbs:    int(math.Round(calories * float64(carbsPercent) / 100 / 4)),
		Fat:      int(math.Round(calories * float64(fatPercent) / 100 / 9)),
	}
}
