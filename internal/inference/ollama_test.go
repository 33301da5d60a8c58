package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/linqiu/chronicle/backend/internal/config"
)

func TestOllamaGenerate(t *testing.T) {
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := ollamaResponse{Done: true}
		resp.Message.Role = "assistant"
		resp.Message.Content = "The Silk Road connected East and West."
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	backend := NewOllamaBackend(config.OllamaConfig{
		BaseURL:        server.URL,
		Model:          "llama3:latest",
		TimeoutSeconds: 5,
	})

	msgs := []*schema.Message{
		schema.SystemMessage("be a historian"),
		schema.UserMessage("what was the Silk Road?"),
	}

	answer, err := backend.Generate(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if answer != "The Silk Road connected East and West." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	if gotReq.Model != "llama3:latest" {
		t.Fatalf("unexpected model in request: %s", gotReq.Model)
	}
	if gotReq.Stream {
		t.Fatal("request must be non-streaming")
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected 2 request messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0]["role"] != "system" || gotReq.Messages[1]["role"] != "user" {
		t.Fatalf("unexpected roles: %v", gotReq.Messages)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	backend := NewOllamaBackend(config.OllamaConfig{
		BaseURL:        server.URL,
		Model:          "missing",
		TimeoutSeconds: 5,
	})

	_, err := backend.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestOllamaPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	backend := NewOllamaBackend(config.OllamaConfig{BaseURL: server.URL, TimeoutSeconds: 5})
	if err := backend.Ping(context.Background()); err != nil {
		t.Fatalf("Ping err: %v", err)
	}
}

func TestOllamaPingUnreachable(t *testing.T) {
	backend := NewOllamaBackend(config.OllamaConfig{
		BaseURL:        "http://127.0.0.1:1",
		TimeoutSeconds: 1,
	})
	if err := backend.Ping(context.Background()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
