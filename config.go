package mealplanner

import (
	"strings"
	"time"
)

// ProviderConfig identifies the LLM provider and its request parameters.
// Missing API key or endpoint is a fatal configuration error surfaced by the
// provider client constructors, never retried.
type ProviderConfig struct {
	Provider       string  `env:"AI_PROVIDER,default=anthropic"`
	APIKey         string  `env:"AI_API_KEY"`
	AnthropicURL   string  `env:"AI_ANTHROPIC_URL,default=https://api.anthropic.com/v1/messages"`
	OpenAIURL      string  `env:"AI_OPENAI_URL,default=https://api.openai.com/v1/chat/completions"`
	Model          string  `env:"AI_MODEL"`
	FallbackModels string  `env:"AI_FALLBACK_MODELS"`
	TimeoutMS      int     `env:"AI_TIMEOUT_MS,default=30000"`
	MaxTokens      int     `env:"AI_MAX_TOKENS,default=6000"`
	Temperature    float64 `env:"AI_TEMPERATURE,default=0.2"`
	MockMode       bool    `env:"AI_MOCK,default=false"`
	RepairEnabled  bool    `env:"AI_REPAIR_ENABLED,default=true"`
}

// Timeout bounds every provider call; exceeding it is a hard failure.
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Fallbacks returns the ordered fallback model list, tried only on
// model-not-found errors from the provider.
func (c ProviderConfig) Fallbacks() []string {
	if strings.TrimSpace(c.FallbackModels) == "" {
		return nil
	}
	parts := strings.Split(c.FallbackModels, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if m := strings.TrimSpace(p); m != "" {
			models = append(models, m)
		}
	}
	return models
}

// PlannerConfig holds the paths used by the CLI collaborators around the
// generation core.
type PlannerConfig struct {
	ProfilePath       string `env:"PROFILE_PATH,default=artifacts/profile.json"`
	PlanOutputPath    string `env:"PLAN_OUTPUT_PATH,default=artifacts/mealplan.json"`
	GroceryOutputPath string `env:"GROCERY_OUTPUT_PATH,default=artifacts/grocery.json"`
}
