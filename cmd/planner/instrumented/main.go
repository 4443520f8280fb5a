package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mealplanner"
	"mealplanner/grocery"
	"mealplanner/macro"
	"mealplanner/planner"
	"mealplanner/provider/anthropic"
	"mealplanner/provider/openai"
	"mealplanner/slack"
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

	profileData, err := storage.NewFileProfileStore(plannerConfig.ProfilePath).Load(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to load profile", "error", err, "path", plannerConfig.ProfilePath)
		return
	}
	var profile mealplanner.UserProfile
	if err := json.Unmarshal(profileData, &profile); err != nil {
		slog.Error("SETUP: Failed to parse profile", "error", err)
		return
	}

	targets := macro.TargetsForProfile(profile)

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

	tracerProvider, meterProvider, otelShutdown, err := mealplanner.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracerName := tracerNameFor(providerConfig)
	tracer := tracerProvider.Tracer(tracerName)
	meter := meterProvider.Meter(tracerName)

	ctx, span := tracer.Start(ctx, tracerName, trace.WithAttributes(
		attribute.String("model.id", providerConfig.Model),
		attribute.Int("model.max_tokens", providerConfig.MaxTokens),
		attribute.Float64("model.temperature", providerConfig.Temperature),
		attribute.Int("targets.calories", targets.Calories),
	))
	defer span.End()

	extraPreferences := argOr(1, "")

	gen := planner.NewInstrumentedPlanner(client, providerConfig.MockMode, providerConfig.RepairEnabled, logger, tracer, meter)
	plan, err := gen.GenerateMealPlan(ctx, profile, targets, extraPreferences)
	if err != nil {
		slog.Error("FAILURE: Could not generate plan", "error", err)
		return
	}

	list := grocery.Aggregate(plan)

	if err := savePlanArtifacts(ctx, plannerConfig, plan, list); err != nil {
		slog.Error("FAILURE: Could not save outputs", "error", err)
		return
	}

	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if webhookURL == "" {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := new(bytes.Buffer)
			body.ReadFrom(r.Body) // nolint: errcheck
			slog.Info("Received request",
				"method", r.Method,
				"path", r.URL.Path,
				"body", body.String(),
			)
			w.WriteHeader(http.StatusOK)
		}))
		defer testServer.Close()
		webhookURL = testServer.URL
	}

	slackClient := slack.NewClient(webhookURL, http.DefaultClient)
	if err := slackClient.PostMealPlan(ctx, "#meal-plans", plan); err != nil {
		slog.Error("Failed to post plan to Slack", "error", err)
	}
	if err := slackClient.PostGroceryList(ctx, "#meal-plans", list); err != nil {
		slog.Error("Failed to post grocery list to Slack", "error", err)
	}
}

func tracerNameFor(cfg mealplanner.ProviderConfig) string {
	if cfg.MockMode {
		return mealplanner.TracerNameMock
	}
	if cfg.Provider == "openai" {
		return mealplanner.TracerNameOpenAI
	}
	return mealplanner.TracerNameAnthropic
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
