package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	Model  ModelConfig
	Chat   ChatConfig
	Ollama OllamaConfig
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	modelCfg, err := loadModelConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	ollama, err := loadOllamaConfig(modelCfg.Name)
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Model: modelCfg, Chat: chat, Ollama: ollama}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr       string
	CORSOrigin string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	corsOrigin := strings.TrimSpace(os.Getenv("CORS_ORIGIN"))

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port, CORSOrigin: corsOrigin}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, CORSOrigin: corsOrigin}, nil
}

// ModelConfig describes the primary inference model and its sampling knobs.
type ModelConfig struct {
	Name        string
	Device      string
	APIKey      string
	AccessKey   string
	SecretKey   string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// ChatConfig bounds how much history is sent to the model per request.
type ChatConfig struct {
	MaxHistoryPairs int
}

// OllamaConfig toggles the alternate local-inference backend.
type OllamaConfig struct {
	Enabled        bool
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Enabled reports whether the required Ark credentials were supplied.
func (c ModelConfig) Enabled() bool {
	return c.Name != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an Ark chat model from the configuration.
func (c ModelConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY plus MODEL_NAME")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Name,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadModelConfig() (ModelConfig, error) {
	temperature, err := parseOptionalFloatEnv("TEMPERATURE")
	if err != nil {
		return ModelConfig{}, err
	}
	if temperature == nil {
		def := 0.7
		temperature = &def
	}

	topP, err := parseOptionalFloatEnv("TOP_P")
	if err != nil {
		return ModelConfig{}, err
	}
	if topP == nil {
		def := 0.9
		topP = &def
	}

	maxTokens, err := parseOptionalIntEnv("MAX_TOKENS")
	if err != nil {
		return ModelConfig{}, err
	}
	if maxTokens == nil {
		def := 512
		maxTokens = &def
	}

	return ModelConfig{
		Name:        getEnvOrDefault("MODEL_NAME", "google/gemma-3-1b-it"),
		Device:      getEnvOrDefault("MODEL_DEVICE", "cpu"),
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

func loadChatConfig() (ChatConfig, error) {
	pairs := 10
	if override, err := parseOptionalIntEnv("MAX_HISTORY_LENGTH"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			pairs = 1
		} else {
			pairs = *override
		}
	}

	return ChatConfig{MaxHistoryPairs: pairs}, nil
}

func loadOllamaConfig(defaultModel string) (OllamaConfig, error) {
	enabled, err := parseBoolEnv("USE_OLLAMA", false)
	if err != nil {
		return OllamaConfig{}, err
	}

	timeout := 60
	if override, err := parseOptionalIntEnv("OLLAMA_TIMEOUT"); err != nil {
		return OllamaConfig{}, err
	} else if override != nil && *override > 0 {
		timeout = *override
	}

	return OllamaConfig{
		Enabled:        enabled,
		BaseURL:        getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		Model:          getEnvOrDefault("OLLAMA_MODEL", defaultModel),
		TimeoutSeconds: timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
