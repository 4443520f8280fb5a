package openai

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

func envelope(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(ClientOpts{URL: "https://api.openai.com/v1/chat/completions"}); !errors.Is(err, mealplanner.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewClient(ClientOpts{APIKey: "sk-test"}); !errors.Is(err, mealplanner.ErrMissingEndpoint) {
		t.Errorf("expected ErrMissingEndpoint, got %v", err)
	}

	client, err := NewClient(ClientOpts{URL: "https://api.openai.com/v1/chat/completions", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.model != defaultModel {
		t.Errorf("default model = %q, want %q", client.model, defaultModel)
	}
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name      string
		responses []*http.Response
		fallbacks []string
		want      string
		wantErr   bool
	}{
		{
			name:      "successful completion",
			responses: []*http.Response{createMockResponse(200, envelope(`{"days":[]}`))},
			want:      `{"days":[]}`,
		},
		{
			name: "model not found falls back when fallbacks configured",
			responses: []*http.Response{
				createMockResponse(404, `{"error":{"message":"The model does not exist","code":"model_not_found"}}`),
				createMockResponse(200, envelope("fallback output")),
			},
			fallbacks: []string{"gpt-4o-mini"},
			want:      "fallback output",
		},
		{
			name: "model not found with no fallbacks",
			responses: []*http.Response{
				createMockResponse(404, "model_not_found"),
			},
			wantErr: true,
		},
		{
			name: "server error fails fast",
			responses: []*http.Response{
				createMockResponse(500, "internal error"),
			},
			wantErr: true,
		},
		{
			name:      "error envelope on 200 fails",
			responses: []*http.Response{createMockResponse(200, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)},
			wantErr:   true,
		},
		{
			name:      "undecodable envelope returns raw body",
			responses: []*http.Response{createMockResponse(200, "plain completion text")},
			want:      "plain completion text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient := &mockHTTPClient{responses: tt.responses}
			client, err := NewClient(ClientOpts{
				URL:            "https://api.openai.com/v1/chat/completions",
				APIKey:         "sk-test",
				Model:          "gpt-4o",
				FallbackModels: tt.fallbacks,
				HTTPClient:     httpClient,
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

func TestClient_Complete_BearerAuth(t *testing.T) {
	httpClient := &mockHTTPClient{responses: []*http.Response{createMockResponse(200, envelope("ok"))}}
	client, err := NewClient(ClientOpts{
		URL:        "https://api.openai.com/v1/chat/completions",
		APIKey:     "sk-test",
		HTTPClient: httpClient,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Complete(context.Background(), "hello"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got := httpClient.requests[0].Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}
}
