package planner

import (
	"fmt"
	"strings"

	"mealplanner"
)

const personaRules = `You are a professional fitness nutritionist and chef with macro-tracking expertise.
CRITICAL RULES FOR MACRO CALCULATIONS:
1) Use USDA FoodData Central standards for whole foods.
2) Be precise: round macros to the nearest 1g.
3) Account for cooking method (raw vs cooked weights).
4) Realistic portions: chicken breast 6-8oz cooked; fish 5-7oz; eggs 1 large = 70 cal/6g P/5g F; rice 1 cup cooked ~200 cal/45g C; sweet potato medium (5oz) ~110 cal/26g C.
5) If numbers seem off, recalc before responding; prioritize accuracy.

MEAL PHILOSOPHY:
- Prioritize whole, minimally processed foods.
- Keep meals exciting and flavorful; vary cooking techniques and ingredients.
- Respect allergies and user preferences.

VARIETY REQUIREMENTS (3 days):
- No meal may repeat across all days.
- Each day features a different primary protein:
  * Day 1: Chicken or Turkey
  * Day 2: Fish or Seafood
  * Day 3: Beef or Pork or Eggs
- Rotate breakfasts (e.g., eggs -> oats -> yogurt parfait).
- Rotate vegetables and grains; vary cooking methods.

OUTPUT: Return ONLY a valid JSON object (no prose, no code fences).`

const planSchema = `SCHEMA (exact keys):
{
  "days": [
    {
      "day": number,
      "meals": [
        {
          "name": string,
          "foods": [ { "item": string, "portion": string } ],
          "macros": { "calories": number, "protein": number, "carbs": number, "fat": number },
          "recipe": { "name": string, "ingredients": [string], "instructions": [string], "prepTime": string, "cookTime": string, "totalTime": string }
        }
      ],
      "dailyTotals": { "calories": number, "protein": number, "carbs": number, "fat": number }
    }
  ]
}`

const generationGuide = `GENERATION INSTRUCTIONS:
- Generate a complete 3-day plan. Each day: 3-4 meals + 1 snack.
- Hit daily targets within +/-50 calories; keep macro totals coherent.
- Each meal must include a practical recipe with ingredients (quantities) and 3-5 clear steps.
- Use whole ingredients; keep recipes flavorful and efficient; include prep/cook/total time.
- Output strictly as JSON per schema.`

// BuildPlanPrompt assembles the generation prompt: fixed persona and rules,
// the user's targets and restrictions, the exact output schema, and any
// caller-supplied preference text appended verbatim.
func BuildPlanPrompt(profile mealplanner.UserProfile, targets mealplanner.MacroTargets, extraPreferences string) string {
	allergies := "None"
	if len(profile.Allergies) > 0 {
		allergies = strings.Join(profile.Allergies, ", ")
	}

	user := fmt.Sprintf(`USER PROFILE:
- Daily Calorie Target: %d
- Daily Protein Target: %dg
- Daily Carb Target: %dg
- Daily Fat Target: %dg
- Fitness Goal: %s
- Allergies/Restrictions: %s

TARGET MACROS (strict per-day adherence):
- Daily Calories: %d (match as closely as possible)
- Daily Protein: %dg (+/-5g)
- Daily Carbs: %dg (+/-5g)
- Daily Fat: %dg (+/-3g)`,
		targets.Calories, targets.Protein, targets.Carbs, targets.Fat,
		profile.FitnessGoal, allergies,
		targets.Calories, targets.Protein, targets.Carbs, targets.Fat)

	prompt := personaRules + "\n\n" + user + "\n\n" + planSchema + "\n\n" + generationGuide
	if strings.TrimSpace(extraPreferences) != "" {
		prompt += "\n\n" + extraPreferences
	}
	return prompt
}

// BuildRepairPrompt asks the model to re-emit its own broken output as valid
// JSON for the plan schema.
func BuildRepairPrompt(badOutput string) string {
	return "You returned content that was not valid JSON for the required schema.\n" +
		"Fix it now by outputting ONLY a valid JSON object matching the schema. No prose. No code fences.\n\n" +
		planSchema + "\n\nHere is the content to fix:\n" + badOutput
}

// BuildReplacementPrompt asks for a single meal fitting the target macros,
// optionally steering away from a meal the user is swapping out.
func BuildReplacementPrompt(target mealplanner.MacroTargets, avoidSimilarTo string) string {
	avoid := ""
	if strings.TrimSpace(avoidSimilarTo) != "" {
		avoid = "Avoid making anything similar to: " + avoidSimilarTo + "\n"
	}
	return fmt.Sprintf(`You are a professional fitness nutritionist and chef. Generate ONE different meal that fits these macros closely.

TARGET MACROS (+/- small tolerance):
- Calories: %d (+/-40)
- Protein: %dg (+/-5)
- Carbs: %dg (+/-8)
- Fat: %dg (+/-5)

RULES:
- Prioritize whole, minimally processed foods and exciting but practical flavors.
- Use realistic portions and account for cooked weights.
- Include a simple, practical recipe with quantities and 3-5 clear steps.
- %sReturn ONLY a valid JSON object matching this schema (no prose, no code fences):
{
  "name": string,
  "foods": [ {"item": string, "portion": string} ],
  "macros": { "calories": number, "protein": number, "carbs": number, "fat": number },
  "recipe": { "name": string, "ingredients": [string], "instructions": [string], "prepTime": string, "cookTime": string, "totalTime": string }
}`,
		target.Calories, target.Protein, target.Carbs, target.Fat, avoid)
}
