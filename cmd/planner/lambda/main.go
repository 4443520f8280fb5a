package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"mealplanner"
	"mealplanner/grocery"
	"mealplanner/macro"
	"mealplanner/planner"
	"mealplanner/provider/bedrock"
	"mealplanner/storage"
)

type Params struct {
	ExtraPreferences string `json:"extra_preferences"`
}

type Results struct {
	Plan        mealplanner.MealPlan    `json:"plan"`
	GroceryList mealplanner.GroceryList `json:"grocery_list"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var providerConfig mealplanner.ProviderConfig
		if err := envdecode.Decode(&providerConfig); err != nil {
			log.Fatalf("SETUP: Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
		profileKey := os.Getenv("ARTIFACTS_PROFILE_S3_KEY")
		planKey := os.Getenv("ARTIFACTS_PLAN_S3_KEY")
		groceryKey := os.Getenv("ARTIFACTS_GROCERY_S3_KEY")
		if s3Bucket == "" || profileKey == "" || planKey == "" || groceryKey == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARTIFACTS_S3_BUCKET, ARTIFACTS_PROFILE_S3_KEY, ARTIFACTS_PLAN_S3_KEY, ARTIFACTS_GROCERY_S3_KEY must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		profileData, err := storage.NewS3ProfileStore(s3Client, s3Bucket, profileKey).Load(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to load profile from S3", "error", err)
			return Results{}, err
		}
		var profile mealplanner.UserProfile
		if err := json.Unmarshal(profileData, &profile); err != nil {
			slog.Error("SETUP: Failed to parse profile", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: Profile loaded from S3", "bucket", s3Bucket, "key", profileKey)

		targets := macro.TargetsForProfile(profile)

		brc, err := newBedrockRuntimeClient(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to create Bedrock client", "error", err)
			return Results{}, err
		}
		client := bedrock.NewClient(brc, bedrock.ClientOpts{
			ModelID:     providerConfig.Model,
			MaxTokens:   int32(providerConfig.MaxTokens),
			Temperature: float32(providerConfig.Temperature),
		})

		generationLogger := mealplanner.NewStdoutGenerationLogger()

		gen := planner.New(client, providerConfig.MockMode, providerConfig.RepairEnabled, generationLogger)
		plan, err := gen.GenerateMealPlan(ctx, profile, targets, params.ExtraPreferences)
		if err != nil {
			slog.Error("RESULT: Could not generate plan", "error", err)
			return Results{}, err
		}

		list := grocery.Aggregate(plan)

		planJSON, err := json.Marshal(plan)
		if err != nil {
			return Results{}, fmt.Errorf("failed to marshal plan: %w", err)
		}
		if err := storage.NewS3PlanStore(s3Client, s3Bucket, planKey).Save(ctx, planJSON); err != nil {
			slog.Error("RESULT: Failed to save plan to S3", "error", err)
			return Results{}, err
		}

		listJSON, err := json.Marshal(list)
		if err != nil {
			return Results{}, fmt.Errorf("failed to marshal grocery list: %w", err)
		}
		if err := storage.NewS3PlanStore(s3Client, s3Bucket, groceryKey).Save(ctx, listJSON); err != nil {
			slog.Error("RESULT: Failed to save grocery list to S3", "error", err)
			return Results{}, err
		}

		return Results{Plan: plan, GroceryList: list}, nil
	}

	lambda.Start(fn)
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}
