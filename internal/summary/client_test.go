package summary

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateFilmSummary_DisabledWithoutConfig(t *testing.T) {
	client := NewClient(Config{}, testLogger())

	if summary, ok := client.GenerateFilmSummary(context.Background(), "Some Film", "Great"); ok || summary != "" {
		t.Errorf("Expected unavailable result for unset config, got (%q, %t)", summary, ok)
	}
}

func TestGenerateFilmSummary_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Reviewers praise the film."}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		Endpoint:     server.URL,
		APIKey:       "test-key",
		DeploymentID: "my-deployment",
	}, testLogger())

	summary, ok := client.GenerateFilmSummary(context.Background(), "Some Film", "Great Bad")
	if !ok {
		t.Fatal("Expected successful generation")
	}
	if summary != "Reviewers praise the film." {
		t.Errorf("Unexpected summary: %q", summary)
	}

	if gotPath != "/openai/deployments/my-deployment/chat/completions" {
		t.Errorf("Unexpected request path: %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Unexpected Authorization header: %q", gotAuth)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("Expected system+user messages, got %+v", gotBody.Messages)
	}
	if !strings.Contains(gotBody.Messages[1].Content, "Some Film") ||
		!strings.Contains(gotBody.Messages[1].Content, "Great Bad") {
		t.Errorf("Expected title and notes in user prompt, got %q", gotBody.Messages[1].Content)
	}
}

func TestGenerateFilmSummary_FailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			},
		},
		{
			name: "error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"error":{"message":"deployment not found","type":"invalid_request_error"}}`))
			},
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(Config{Endpoint: server.URL, APIKey: "test-key"}, testLogger())
			if summary, ok := client.GenerateFilmSummary(context.Background(), "Some Film", "Great"); ok || summary != "" {
				t.Errorf("Expected unavailable result, got (%q, %t)", summary, ok)
			}
		})
	}
}

func TestGenerateFilmSummary_NetworkError(t *testing.T) {
	// Закрытый сервер гарантирует ошибку соединения
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{Endpoint: server.URL, APIKey: "test-key"}, testLogger())
	if _, ok := client.GenerateFilmSummary(context.Background(), "Some Film", "Great"); ok {
		t.Error("Expected unavailable result on network error")
	}
}

func TestGenerateFilmSummary_Caching(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Cached summary."}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, APIKey: "test-key", EnableCaching: true}, testLogger())

	for i := 0; i < 2; i++ {
		summary, ok := client.GenerateFilmSummary(context.Background(), "Some Film", "Great")
		if !ok || summary != "Cached summary." {
			t.Fatalf("Expected cached summary on call %d, got (%q, %t)", i+1, summary, ok)
		}
	}
	if calls != 1 {
		t.Errorf("Expected exactly one remote call with caching enabled, got %d", calls)
	}

	// Другой набор отзывов — другой ключ кэша
	if _, ok := client.GenerateFilmSummary(context.Background(), "Some Film", "Bad"); !ok {
		t.Fatal("Expected successful generation for new cache key")
	}
	if calls != 2 {
		t.Errorf("Expected second remote call for different notes, got %d", calls)
	}
}

func TestGenerateFilmSummary_CachingDisabled(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Fresh summary."}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, APIKey: "test-key"}, testLogger())

	for i := 0; i < 2; i++ {
		if _, ok := client.GenerateFilmSummary(context.Background(), "Some Film", "Great"); !ok {
			t.Fatalf("Expected successful generation on call %d", i+1)
		}
	}
	if calls != 2 {
		t.Errorf("Expected remote call per request with caching disabled, got %d", calls)
	}
}
