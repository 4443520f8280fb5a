package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mealplanner"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts plan notifications to a Slack incoming webhook.
type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostMealPlan renders a plan summary and posts it.
func (c *Client) PostMealPlan(ctx context.Context, channel string, plan mealplanner.MealPlan) error {
	return c.PostMessage(ctx, channel, FormatMealPlan(plan))
}

// PostGroceryList renders the grocery list and posts it.
func (c *Client) PostGroceryList(ctx context.Context, channel string, list mealplanner.GroceryList) error {
	return c.PostMessage(ctx, channel, FormatGroceryList(list))
}

// FormatMealPlan renders a compact day-by-day summary with per-day totals.
func FormatMealPlan(plan mealplanner.MealPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Meal Plan* (target %d kcal / %dP / %dC / %dF)\n",
		plan.DailyTargets.Calories, plan.DailyTargets.Protein, plan.DailyTargets.Carbs, plan.DailyTargets.Fat))
	for _, day := range plan.Days {
		sb.WriteString(fmt.Sprintf("\n*Day %d*", day.DayNumber))
		if day.DailyTotal != nil {
			sb.WriteString(fmt.Sprintf(" (%d kcal / %dP / %dC / %dF)",
				day.DailyTotal.Calories, day.DailyTotal.Protein, day.DailyTotal.Carbs, day.DailyTotal.Fat))
		}
		sb.WriteString("\n")
		for _, meal := range day.Meals {
			sb.WriteString("- " + meal.Name)
			if len(meal.Foods) > 0 {
				names := make([]string, 0, len(meal.Foods))
				for _, f := range meal.Foods {
					names = append(names, f.Item)
				}
				sb.WriteString(": " + strings.Join(names, ", "))
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatGroceryList renders one section per category in aggregation order.
func FormatGroceryList(list mealplanner.GroceryList) string {
	var sb strings.Builder
	sb.WriteString("*Grocery List*\n")
	for _, cat := range list.Categories {
		sb.WriteString("\n*" + cat.Name + "*\n")
		for _, line := range cat.Lines {
			sb.WriteString("- " + line + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
