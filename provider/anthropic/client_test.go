package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"mealplanner"
)

// mockHTTPClient implements the HTTPClient interface for testing. Responses
// are served in order, one per request.
type mockHTTPClient struct {
	responses []*http.Response
	err       error
	requests  []*http.Request
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, errors.New("no more mock responses")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func envelope(texts ...string) string {
	content := make([]map[string]string, 0, len(texts))
	for _, t := range texts {
		content = append(content, map[string]string{"type": "text", "text": t})
	}
	b, _ := json.Marshal(map[string]any{"content": content})
	return string(b)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		opts    ClientOpts
		wantErr error
	}{
		{
			name: "valid client creation",
			opts: ClientOpts{
				URL:    "https://api.anthropic.com/v1/messages",
				APIKey: "sk-test",
				Model:  "claude-3-5-sonnet-latest",
			},
			wantErr: nil,
		},
		{
			name: "missing API key",
			opts: ClientOpts{
				URL: "https://api.anthropic.com/v1/messages",
			},
			wantErr: mealplanner.ErrMissingAPIKey,
		},
		{
			name: "missing endpoint",
			opts: ClientOpts{
				APIKey: "sk-test",
			},
			wantErr: mealplanner.ErrMissingEndpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClient(tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewClient() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.model != tt.opts.Model {
				t.Errorf("NewClient() model = %v, want %v", got.model, tt.opts.Model)
			}
			if len(got.fallbacks) == 0 {
				t.Error("NewClient() expected default fallback models")
			}
		})
	}
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name      string
		responses []*http.Response
		httpErr   error
		want      string
		wantErr   bool
	}{
		{
			name:      "successful completion",
			responses: []*http.Response{createMockResponse(200, envelope(`{"days":[]}`))},
			want:      `{"days":[]}`,
		},
		{
			name: "concatenates multiple text blocks",
			responses: []*http.Response{
				createMockResponse(200, envelope(`{"days":`, `[]}`)),
			},
			want: `{"days":[]}`,
		},
		{
			name: "model not found falls back to next model",
			responses: []*http.Response{
				createMockResponse(404, `{"type":"error","error":{"type":"not_found_error"}}`),
				createMockResponse(200, envelope("fallback output")),
			},
			want: "fallback output",
		},
		{
			name: "non-retryable error fails fast",
			responses: []*http.Response{
				createMockResponse(429, `{"type":"error","error":{"type":"rate_limit_error"}}`),
			},
			wantErr: true,
		},
		{
			name: "all models not found",
			responses: []*http.Response{
				createMockResponse(404, "not_found_error"),
				createMockResponse(404, "not_found_error"),
				createMockResponse(404, "not_found_error"),
			},
			wantErr: true,
		},
		{
			name:      "undecodable envelope returns raw body",
			responses: []*http.Response{createMockResponse(200, "plain text, not an envelope")},
			want:      "plain text, not an envelope",
		},
		{
			name:    "transport error",
			httpErr: errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient := &mockHTTPClient{responses: tt.responses, err: tt.httpErr}
			client, err := NewClient(ClientOpts{
				URL:        "https://api.anthropic.com/v1/messages",
				APIKey:     "sk-test",
				Model:      "claude-3-5-sonnet-latest",
				MaxTokens:  6000,
				HTTPClient: httpClient,
			})
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}

			got, err := client.Complete(context.Background(), "generate a plan")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Complete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Complete() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Complete_RequestShape(t *testing.T) {
	httpClient := &mockHTTPClient{responses: []*http.Response{createMockResponse(200, envelope("ok"))}}
	client, err := NewClient(ClientOpts{
		URL:         "https://api.anthropic.com/v1/messages",
		APIKey:      "sk-test",
		Model:       "claude-3-5-sonnet-latest",
		MaxTokens:   6000,
		Temperature: 0.2,
		HTTPClient:  httpClient,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Complete(context.Background(), "hello"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if len(httpClient.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(httpClient.requests))
	}
	req := httpClient.requests[0]
	if got := req.Header.Get("x-api-key"); got != "sk-test" {
		t.Errorf("x-api-key = %q", got)
	}
	if got := req.Header.Get("anthropic-version"); got != anthropicVersion {
		t.Errorf("anthropic-version = %q", got)
	}

	body, _ := io.ReadAll(req.Body)
	var wire wireRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if wire.Model != "claude-3-5-sonnet-latest" || wire.MaxTokens != 6000 {
		t.Errorf("unexpected wire request: %+v", wire)
	}
	if len(wire.Messages) != 1 || wire.Messages[0].Role != "user" || wire.Messages[0].Content != "hello" {
		t.Errorf("unexpected messages: %+v", wire.Messages)
	}
}
