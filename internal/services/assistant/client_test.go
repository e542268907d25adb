package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tome/internal/config"
)

func testConfig(url string) config.Assistant {
	return config.Assistant{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "test-model",
	}
}

func completionBody(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestLookupReturnsRawContent(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(completionBody(`{"title":"Dune","confidence":0.9}`)))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	content, err := client.Lookup(context.Background(), "01 - Intro.mp3", "Dune")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if content != `{"title":"Dune","confidence":0.9}` {
		t.Fatalf("unexpected content: %q", content)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody.Model != "test-model" {
		t.Fatalf("unexpected model: %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	if gotBody.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json response format, got %+v", gotBody.ResponseFormat)
	}
}

func TestLookupRetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionBody(`{"title":"X"}`)))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(testConfig(server.URL), WithSleeper(func(d time.Duration) {
		slept = append(slept, d)
	}))
	if _, err := client.Lookup(context.Background(), "a.mp3", "A"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected Retry-After honored, got %v", slept)
	}
}

func TestLookupClientErrorIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithSleeper(func(time.Duration) {}))
	_, err := client.Lookup(context.Background(), "a.mp3", "A")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", transportErr.StatusCode)
	}
	if attempts != 1 {
		t.Fatalf("400 must not be retried, got %d attempts", attempts)
	}
}

func TestLookupRequiresAPIKey(t *testing.T) {
	client := NewClient(config.Assistant{BaseURL: "http://localhost", Model: "m"})
	if _, err := client.Lookup(context.Background(), "a.mp3", "A"); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"ok":true}`)))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestHealthCheckRejectsUnexpectedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"ok":false}`)))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check failure")
	}
}
