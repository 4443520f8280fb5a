package anthropic

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

const anthropicVersion = "2023-06-01"

// defaultFallbackModels are broadly available models tried, in order, when
// the configured model comes back as not found.
var defaultFallbackModels = []string{
	"claude-3-5-haiku-20241022",
	"claude-3-haiku-20240307",
}

const defaultModel = "claude-3-5-sonnet-latest"

// Client calls the Anthropic messages API with ordered model fallback.
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
	if opts.FallbackModels == nil {
		opts.FallbackModels = defaultFallbackModels
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
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []wireMessage `json:"messages"`
}

type wireContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wireResponse struct {
	Content []wireContent `json:"content"`
}

// Complete sends the prompt as a single user message, trying the configured
// model first and each fallback model only on a model-not-found error. Any
// other error class fails immediately.
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
	return "", fmt.Errorf("anthropic call failed: no models attempted")
}

func (c *Client) completeWithModel(ctx context.Context, prompt, model string) (string, error) {
	reqBody := wireRequest{
		Model:       model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    []wireMessage{{Role: "user", Content: prompt}},
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
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call anthropic: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &mealplanner.ProviderError{
			Provider: "anthropic",
			Model:    model,
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}

	return extractText(body), nil
}

// extractText concatenates the text content blocks of the response envelope.
// If envelope parsing fails, the raw body is returned and downstream
// sanitize/parse takes its chances.
func extractText(body []byte) string {
	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil || len(wr.Content) == 0 {
		slog.Warn("LLM_CLIENT: anthropic envelope decode failed, returning raw body")
		return string(body)
	}

	var sb strings.Builder
	for _, block := range wr.Content {
		if strings.EqualFold(block.Type, "text") {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return string(body)
	}
	return sb.String()
}
