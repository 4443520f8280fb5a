package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"mealplanner"
)

const defaultModel = "gpt-4o"

// Client calls the OpenAI chat completions API with ordered model fallback.
type Client struct {
	url         string
	apiKey      string
	model       string
	fallbacks   []string
	maxTokens   int
	temperature float64
	httpClient  mealplanner.HTTPClient
}

type ClientOpts struct {
	URL            string
	APIKey         string
	Model          string
	FallbackModels []string
	MaxTokens      int
	Temperature    float64
	HTTPClient     mealplanner.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, mealplanner.ErrMissingAPIKey
	}
	if strings.TrimSpace(opts.URL) == "" {
		return nil, mealplanner.ErrMissingEndpoint
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		url:         opts.URL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		fallbacks:   opts.FallbackModels,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		httpClient:  opts.HTTPClient,
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type wireResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends the prompt as a single user message, trying the configured
// model first and each fallback model only on a model-not-found error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	candidates := make([]string, 0, 1+len(c.fallbacks))
	candidates = append(candidates, c.model)
	candidates = append(candidates, c.fallbacks...)

	var lastErr error
	tried := make(map[string]bool, len(candidates))
	for _, model := range candidates {
		if tried[model] {
			continue
		}
		tried[model] = true

		text, err := c.completeWithModel(ctx, prompt, model)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var provErr *mealplanner.ProviderError
		if errors.As(err, &provErr) && provErr.ModelNotFound() {
			slog.Warn("LLM_CLIENT: Model not found, trying fallback", "model", model)
			continue
		}
		return "", err
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("openai call failed: no models attempted")
}

func (c *Client) completeWithModel(ctx context.Context, prompt, model string) (string, error) {
	reqBody := wireRequest{
		Model:       model,
		Messages:    []wireMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call openai: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &mealplanner.ProviderError{
			Provider: "openai",
			Model:    model,
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}

	return extractText(body, model)
}

// extractText unwraps choices[0].message.content. A decodable error envelope
// on a 2xx status still fails; an undecodable body is returned raw and
// downstream sanitize/parse takes its chances.
func extractText(body []byte, model string) (string, error) {
	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		slog.Warn("LLM_CLIENT: openai envelope decode failed, returning raw body")
		return string(body), nil
	}

	if wr.Error != nil {
		return "", &mealplanner.ProviderError{
			Provider: "openai",
			Model:    model,
			Status:   200,
			Body:     wr.Error.Type + ": " + wr.Error.Message,
		}
	}
	if len(wr.Choices) == 0 {
		return string(body), nil
	}
	return wr.Choices[0].Message.Content, nil
}
