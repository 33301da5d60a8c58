package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MODEL_NAME", "MODEL_DEVICE", "TEMPERATURE", "TOP_P",
		"MAX_TOKENS", "MAX_HISTORY_LENGTH", "USE_OLLAMA", "OLLAMA_BASE_URL",
		"OLLAMA_MODEL", "OLLAMA_TIMEOUT", "ARK_API_KEY", "ARK_ACCESS_KEY",
		"ARK_SECRET_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Model.Name != "google/gemma-3-1b-it" {
		t.Fatalf("unexpected default model: %s", cfg.Model.Name)
	}
	if cfg.Model.Temperature == nil || *cfg.Model.Temperature != 0.7 {
		t.Fatalf("unexpected default temperature: %v", cfg.Model.Temperature)
	}
	if cfg.Model.TopP == nil || *cfg.Model.TopP != 0.9 {
		t.Fatalf("unexpected default top-p: %v", cfg.Model.TopP)
	}
	if cfg.Model.MaxTokens == nil || *cfg.Model.MaxTokens != 512 {
		t.Fatalf("unexpected default max tokens: %v", cfg.Model.MaxTokens)
	}
	if cfg.Chat.MaxHistoryPairs != 10 {
		t.Fatalf("unexpected default history pairs: %d", cfg.Chat.MaxHistoryPairs)
	}
	if cfg.Ollama.Enabled {
		t.Fatal("ollama should be disabled by default")
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Fatalf("unexpected default ollama URL: %s", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.Model != cfg.Model.Name {
		t.Fatalf("ollama model should fall back to MODEL_NAME, got %s", cfg.Ollama.Model)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MODEL_NAME", "qwen-7b-chat")
	t.Setenv("TEMPERATURE", "0.2")
	t.Setenv("MAX_HISTORY_LENGTH", "3")
	t.Setenv("USE_OLLAMA", "true")
	t.Setenv("OLLAMA_MODEL", "llama3:latest")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Model.Name != "qwen-7b-chat" {
		t.Fatalf("unexpected model: %s", cfg.Model.Name)
	}
	if *cfg.Model.Temperature != 0.2 {
		t.Fatalf("unexpected temperature: %v", *cfg.Model.Temperature)
	}
	if cfg.Chat.MaxHistoryPairs != 3 {
		t.Fatalf("unexpected history pairs: %d", cfg.Chat.MaxHistoryPairs)
	}
	if !cfg.Ollama.Enabled {
		t.Fatal("expected ollama enabled")
	}
	if cfg.Ollama.Model != "llama3:latest" {
		t.Fatalf("unexpected ollama model: %s", cfg.Ollama.Model)
	}
}

func TestLoadExplicitAddr(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8081" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("TEMPERATURE", "hot")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid TEMPERATURE")
	}
	t.Setenv("TEMPERATURE", "")

	t.Setenv("USE_OLLAMA", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid USE_OLLAMA")
	}
	t.Setenv("USE_OLLAMA", "")

	t.Setenv("PORT", "80 80")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestHistoryPairsFloor(t *testing.T) {
	t.Setenv("MAX_HISTORY_LENGTH", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Chat.MaxHistoryPairs != 1 {
		t.Fatalf("history pairs should floor at 1, got %d", cfg.Chat.MaxHistoryPairs)
	}
}

func TestModelEnabled(t *testing.T) {
	cfg := ModelConfig{Name: "m", APIKey: "k"}
	if !cfg.Enabled() {
		t.Fatal("api key + model should enable the backend")
	}

	cfg = ModelConfig{Name: "m", AccessKey: "a", SecretKey: "s"}
	if !cfg.Enabled() {
		t.Fatal("ak/sk pair + model should enable the backend")
	}

	cfg = ModelConfig{Name: "m"}
	if cfg.Enabled() {
		t.Fatal("missing credentials should disable the backend")
	}
}
