package inference

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/linqiu/chronicle/backend/internal/config"
)

// ArkBackend serves generation through an Ark-hosted chat model.
type ArkBackend struct {
	chatModel model.ChatModel
	name      string
}

// NewArkBackend creates the chat model from configuration. Initialization
// is fallible by design; the caller decides how to degrade.
func NewArkBackend(ctx context.Context, cfg config.ModelConfig) (*ArkBackend, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return &ArkBackend{chatModel: chatModel, name: cfg.Name}, nil
}

// Generate submits the turn list and returns the generated text.
func (b *ArkBackend) Generate(ctx context.Context, msgs []*schema.Message) (string, error) {
	response, err := b.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("ark generation failed: %w", err)
	}
	return response.Content, nil
}

// ModelName returns the configured model identifier.
func (b *ArkBackend) ModelName() string {
	return b.name
}
