package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner"
)

func TestBMR_MifflinStJeor(t *testing.T) {
	// 180 lb, 5'10", 30 year old male.
	bmr := BMR(180, 5, 10, 30, "male")
	weightKg := PoundsToKg(180)
	heightCm := HeightToCm(5, 10)
	want := 10*weightKg + 6.25*heightCm - 5*30 + 5
	assert.InDelta(t, want, bmr, 1e-9)

	female := BMR(180, 5, 10, 30, "female")
	assert.InDelta(t, want-166, female, 1e-9)
}

func TestBMRByFormula(t *testing.T) {
	bodyFat := 20.0

	t.Run("harris-benedict male", func(t *testing.T) {
		bmr, err := BMRByFormula(FormulaHarrisBenedict, 180, 5, 10, 30, "male", nil)
		require.NoError(t, err)
		weightKg := PoundsToKg(180)
		heightCm := HeightToCm(5, 10)
		assert.InDelta(t, 88.362+13.397*weightKg+4.799*heightCm-5.677*30, bmr, 1e-9)
	})

	t.Run("katch-mcardle", func(t *testing.T) {
		bmr, err := BMRByFormula(FormulaKatchMcArdle, 180, 5, 10, 30, "male", &bodyFat)
		require.NoError(t, err)
		lean := PoundsToKg(180) * 0.8
		assert.InDelta(t, 370+21.6*lean, bmr, 1e-9)
	})

	t.Run("katch-mcardle requires body fat", func(t *testing.T) {
		_, err := BMRByFormula(FormulaKatchMcArdle, 180, 5, 10, 30, "male", nil)
		require.Error(t, err)
	})

	t.Run("katch-mcardle bounds body fat", func(t *testing.T) {
		low := 3.0
		_, err := BMRByFormula(FormulaKatchMcArdle, 180, 5, 10, 30, "male", &low)
		require.Error(t, err)
	})

	t.Run("empty formula defaults to mifflin-st-jeor", func(t *testing.T) {
		bmr, err := BMRByFormula("", 180, 5, 10, 30, "male", nil)
		require.NoError(t, err)
		assert.InDelta(t, BMR(180, 5, 10, 30, "male"), bmr, 1e-9)
	})
}

func TestTDEE(t *testing.T) {
	tests := []struct {
		level string
		want  float64
	}{
		{"Sedentary", 1.2},
		{"Lightly Active", 1.375},
		{"lightly active (exercise 1-2x a week)", 1.375},
		{"Moderately Active", 1.55},
		{"moderately active(exercise 3x a week)", 1.55},
		{"Very Active", 1.725},
		{"Extremely Active", 1.9},
		{"extremely active (exercise 5-7x a week)", 1.9},
		{"couch potato", 1.2},
		{"", 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.InDelta(t, 1000*tt.want, TDEE(1000, tt.level), 1e-9)
		})
	}
}

func TestAdjustForGoal(t *testing.T) {
	assert.Equal(t, 1650.0, AdjustForGoal(2000, "Lose Weight"))
	assert.Equal(t, 2350.0, AdjustForGoal(2000, "Build Muscle"))
	assert.Equal(t, 2350.0, AdjustForGoal(2000, "gain mass"))
	assert.Equal(t, 2000.0, AdjustForGoal(2000, "Maintain Weight"))
	assert.Equal(t, 2000.0, AdjustForGoal(2000, ""))
}

func TestTargets(t *testing.T) {
	got := Targets(2000)
	// 30/40/30: protein 600/4, carbs 800/4, fat 600/9.
	assert.Equal(t, mealplanner.MacroTargets{Calories: 2000, Protein: 150, Carbs: 200, Fat: 67}, got)
}

func TestTargetsWithSplit(t *testing.T) {
	t.Run("valid split", func(t *testing.T) {
		got, err := TargetsWithSplit(2000, 40, 40, 20)
		require.NoError(t, err)
		assert.Equal(t, mealplanner.MacroTargets{Calories: 2000, Protein: 200, Carbs: 200, Fat: 44}, got)
	})

	tests := []struct {
		name    string
		p, c, f int
	}{
		{"must total 100", 40, 40, 30},
		{"protein too low", 15, 55, 30},
		{"protein too high", 55, 25, 20},
		{"carbs too high", 20, 65, 15},
		{"fat too low", 40, 50, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TargetsWithSplit(2000, tt.p, tt.c, tt.f)
			require.Error(t, err)
		})
	}
}

func TestTargetsForProfile(t *testing.T) {
	profile := mealplanner.UserProfile{
		Weight:        180,
		HeightFeet:    5,
		HeightInches:  10,
		Age:           30,
		Sex:           "male",
		ActivityLevel: "Moderately Active",
		FitnessGoal:   "Build Muscle",
	}
	got := TargetsForProfile(profile)

	bmr := BMR(180, 5, 10, 30, "male")
	want := Targets(AdjustForGoal(TDEE(bmr, "Moderately Active"), "Build Muscle"))
	assert.Equal(t, want, got)
	assert.Greater(t, got.Calories, 2000)
}
