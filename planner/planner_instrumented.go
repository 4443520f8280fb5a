package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"mealplanner"
)

// InstrumentedPlanner is an instrumented version of the Planner with comprehensive observability metrics.
type InstrumentedPlanner struct {
	client        mealplanner.CompletionClient
	mockMode      bool
	repairEnabled bool
	logger        mealplanner.GenerationLogger
	tracer        trace.Tracer
	meter         metric.Meter
}

// NewInstrumentedPlanner initializes a new instrumented planner.
func NewInstrumentedPlanner(client mealplanner.CompletionClient, mockMode, repairEnabled bool, log mealplanner.GenerationLogger, tracer trace.Tracer, meter metric.Meter) *InstrumentedPlanner {
	if log == nil {
		log = mealplanner.NewNoOpGenerationLogger()
	}
	return &InstrumentedPlanner{
		client:        client,
		mockMode:      mockMode,
		repairEnabled: repairEnabled,
		logger:        log,
		tracer:        tracer,
		meter:         meter,
	}
}

// GenerateMealPlan produces a multi-day plan with full instrumentation.
func (p *InstrumentedPlanner) GenerateMealPlan(ctx context.Context, profile mealplanner.UserProfile, targets mealplanner.MacroTargets, extraPreferences string) (mealplanner.MealPlan, error) {
	ctx, span := p.tracer.Start(ctx, "InstrumentedPlanner.GenerateMealPlan")
	defer span.End()

	slog.Info("PLANNER: Starting instrumented generation")

	generationsCounter, _ := p.meter.Int64Counter("plan_generations_total",
		metric.WithDescription("Total number of plan generations started"))
	generationsCompletedCounter, _ := p.meter.Int64Counter("plan_generations_completed_total",
		metric.WithDescription("Total number of plan generations completed successfully"))
	generationsFailedCounter, _ := p.meter.Int64Counter("plan_generations_failed_total",
		metric.WithDescription("Total number of plan generations that failed"))
	parseFailuresCounter, _ := p.meter.Int64Counter("plan_parse_failures_total",
		metric.WithDescription("Total number of completions that failed strict and lenient parsing"))
	repairAttemptsCounter, _ := p.meter.Int64Counter("plan_repair_attempts_total",
		metric.WithDescription("Total number of repair round trips attempted"))
	mockPlansCounter, _ := p.meter.Int64Counter("plan_mock_generations_total",
		metric.WithDescription("Total number of plans served from mock mode"))

	promptSizeGauge, _ := p.meter.Int64Gauge("plan_prompt_size_bytes",
		metric.WithDescription("Size of the prompt sent to the model in bytes"))
	completionLengthGauge, _ := p.meter.Int64Gauge("plan_completion_length",
		metric.WithDescription("Length of the raw completion text"))
	planDaysGauge, _ := p.meter.Int64Gauge("plan_days_count",
		metric.WithDescription("Number of days in the generated plan"))

	generationDurationHist, _ := p.meter.Float64Histogram("plan_generation_duration_seconds",
		metric.WithDescription("Total duration of plan generation in seconds"))
	llmResponseTimeHist, _ := p.meter.Float64Histogram("plan_llm_response_time_seconds",
		metric.WithDescription("Time taken to receive a completion from the model in seconds"))

	generationsCounter.Add(ctx, 1)

	if p.mockMode {
		mockPlansCounter.Add(ctx, 1)
		span.AddEvent("Serving mock plan")
		p.logAttempt(mealplanner.GenerationAttempt{Stage: "mock", Timestamp: time.Now(), ParseOK: true})
		return mockMealPlan(targets), nil
	}

	startTime := time.Now()

	prompt := BuildPlanPrompt(profile, targets, extraPreferences)
	promptSizeGauge.Record(ctx, int64(len(prompt)))
	span.AddEvent("Sending prompt to LLM", trace.WithAttributes(
		attribute.Int("prompt_size_bytes", len(prompt)),
		attribute.Int("target_calories", targets.Calories),
	))

	llmStartTime := time.Now()
	raw, err := p.client.Complete(ctx, prompt)
	llmResponseTimeHist.Record(ctx, time.Since(llmStartTime).Seconds())
	if err != nil {
		generationsFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "LLM completion failed")
		span.RecordError(err)
		return mealplanner.MealPlan{}, fmt.Errorf("failed to get completion: %w", err)
	}
	completionLengthGauge.Record(ctx, int64(len(raw)))

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
		parseFailuresCounter.Add(ctx, 1)
		span.AddEvent("Initial parse failed", trace.WithAttributes(
			attribute.String("error", err.Error()),
		))
		if !p.repairEnabled {
			generationsFailedCounter.Add(ctx, 1)
			span.SetStatus(codes.Error, "Parse failed, repair disabled")
			span.RecordError(err)
			return mealplanner.MealPlan{}, err
		}

		repairAttemptsCounter.Add(ctx, 1)
		plan, err = p.repairInstrumented(ctx, raw, targets, llmResponseTimeHist)
		if err != nil {
			parseFailuresCounter.Add(ctx, 1)
			generationsFailedCounter.Add(ctx, 1)
			span.SetStatus(codes.Error, "Repair failed")
			span.RecordError(err)
			return mealplanner.MealPlan{}, err
		}
	}

	fillMissingDailyTotals(&plan, targets)

	generationDurationHist.Record(ctx, time.Since(startTime).Seconds())
	planDaysGauge.Record(ctx, int64(len(plan.Days)))
	generationsCompletedCounter.Add(ctx, 1)
	span.AddEvent("Plan generated", trace.WithAttributes(
		attribute.Int("days", len(plan.Days)),
	))

	slog.Info("PLANNER: Plan generated", "days", len(plan.Days), "duration", time.Since(startTime))
	return plan, nil
}

func (p *InstrumentedPlanner) repairInstrumented(ctx context.Context, badOutput string, targets mealplanner.MacroTargets, llmResponseTimeHist metric.Float64Histogram) (mealplanner.MealPlan, error) {
	ctx, span := p.tracer.Start(ctx, "InstrumentedPlanner.Repair")
	defer span.End()

	slog.Warn("PLANNER: Initial parse failed, attempting repair")

	prompt := BuildRepairPrompt(badOutput)
	llmStartTime := time.Now()
	raw, err := p.client.Complete(ctx, prompt)
	llmResponseTimeHist.Record(ctx, time.Since(llmStartTime).Seconds())
	if err != nil {
		span.SetStatus(codes.Error, "Repair completion failed")
		span.RecordError(err)
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
		span.SetStatus(codes.Error, "Repair parse failed")
		span.RecordError(err)
		return mealplanner.MealPlan{}, err
	}
	return plan, nil
}

// GenerateReplacementMeal produces one replacement meal with tracing.
func (p *InstrumentedPlanner) GenerateReplacementMeal(ctx context.Context, target mealplanner.MacroTargets, avoidSimilarTo string) (mealplanner.Meal, error) {
	ctx, span := p.tracer.Start(ctx, "InstrumentedPlanner.GenerateReplacementMeal")
	defer span.End()

	meal, err := New(p.client, p.mockMode, p.repairEnabled, p.logger).GenerateReplacementMeal(ctx, target, avoidSimilarTo)
	if err != nil {
		span.SetStatus(codes.Error, "Replacement meal generation failed")
		span.RecordError(err)
		return mealplanner.Meal{}, err
	}
	span.AddEvent("Replacement meal generated", trace.WithAttributes(
		attribute.String("meal_name", meal.Name),
	))
	return meal, nil
}

func (p *InstrumentedPlanner) logAttempt(attempt mealplanner.GenerationAttempt) {
	if err := p.logger.LogAttempt(attempt); err != nil {
		slog.Warn("PLANNER: Failed to log attempt", "error", err)
	}
}
