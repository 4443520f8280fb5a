package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joeshaw/envdecode"

	"mealplanner"
	"mealplanner/grocery"
	"mealplanner/macro"
	"mealplanner/planner"
	"mealplanner/provider/anthropic"
	"mealplanner/provider/openai"
	"mealplanner/storage"
)

func main() {
	ctx := context.Background()

	var providerConfig mealplanner.ProviderConfig
	if err := envdecode.Decode(&providerConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var plannerConfig mealplanner.PlannerConfig
	if err := envdecode.Decode(&plannerConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	profileStore := storage.NewFileProfileStore(plannerConfig.ProfilePath)
	profileData, err := profileStore.Load(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to load profile", "error", err, "path", plannerConfig.ProfilePath)
		return
	}
	var profile mealplanner.UserProfile
	if err := json.Unmarshal(profileData, &profile); err != nil {
		slog.Error("SETUP: Failed to parse profile", "error", err)
		return
	}
	slog.Info("SETUP: Profile loaded", "path", plannerConfig.ProfilePath)

	targets := macro.TargetsForProfile(profile)
	slog.Info("SETUP: Macro targets computed",
		"calories", targets.Calories,
		"protein", targets.Protein,
		"carbs", targets.Carbs,
		"fat", targets.Fat,
	)

	client, err := newCompletionClient(providerConfig)
	if err != nil {
		slog.Error("SETUP: Failed to create provider client", "error", err)
		return
	}

	logger, cleanup, err := newGenerationLogger(providerConfig.Model)
	if err != nil {
		slog.Error("SETUP: Failed to create generation logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush generation log", "error", err)
		}
	}()

	extraPreferences := argOr(1, "")

	gen := planner.New(client, providerConfig.MockMode, providerConfig.RepairEnabled, logger)
	plan, err := gen.GenerateMealPlan(ctx, profile, targets, extraPreferences)
	if err != nil {
		slog.Error("FAILURE: Could not generate plan", "error", err)
		return
	}

	list := grocery.Aggregate(plan)

	if os.Getenv("PLANNER_DEBUG") != "" {
		mealplanner.Dump(plan, list)
	}

	if err := savePlanArtifacts(ctx, plannerConfig, plan, list); err != nil {
		slog.Error("FAILURE: Could not save outputs", "error", err)
		return
	}

	slog.Info("RESULT: Plan generated",
		"days", len(plan.Days),
		"plan_path", plannerConfig.PlanOutputPath,
		"grocery_path", plannerConfig.GroceryOutputPath,
	)
}

func newCompletionClient(cfg mealplanner.ProviderConfig) (mealplanner.CompletionClient, error) {
	if cfg.MockMode {
		return nil, nil
	}
	httpClient := &http.Client{Timeout: cfg.Timeout()}
	switch cfg.Provider {
	case "openai":
		return openai.NewClient(openai.ClientOpts{
			URL:            cfg.OpenAIURL,
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			FallbackModels: cfg.Fallbacks(),
			MaxTokens:      cfg.MaxTokens,
			Temperature:    cfg.Temperature,
			HTTPClient:     httpClient,
		})
	case "anthropic", "":
		return anthropic.NewClient(anthropic.ClientOpts{
			URL:            cfg.AnthropicURL,
			APIKey:         cfg.APIKey,
			Model:          cfg.Model,
			FallbackModels: cfg.Fallbacks(),
			MaxTokens:      cfg.MaxTokens,
			Temperature:    cfg.Temperature,
			HTTPClient:     httpClient,
		})
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

func savePlanArtifacts(ctx context.Context, cfg mealplanner.PlannerConfig, plan mealplanner.MealPlan, list mealplanner.GroceryList) error {
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := storage.NewFilePlanStore(cfg.PlanOutputPath).Save(ctx, planJSON); err != nil {
		return err
	}

	listJSON, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal grocery list: %w", err)
	}
	return storage.NewFilePlanStore(cfg.GroceryOutputPath).Save(ctx, listJSON)
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newGenerationLogger(model string) (mealplanner.GenerationLogger, func() error, error) {
	logFilePath := mealplanner.NewGenerationLogFilePath(model)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := mealplanner.NewFileGenerationLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
