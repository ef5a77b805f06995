package llm

import (
	"context"
	"fmt"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/config"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
)

// New builds the client for the configured provider.
func New(ctx context.Context, cfg config.LLMConfig, logg *logger.Logger) (Client, error) {
	switch cfg.ProviderEnum() {
	case enums.LLMProviderGemini:
		return NewGeminiClient(ctx, cfg, logg)
	case enums.LLMProviderOpenAI:
		return NewOpenAIClient(cfg, logg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
