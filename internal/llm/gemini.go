package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/config"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
)

// GeminiClient calls the Gemini API through the official genai SDK.
type GeminiClient struct {
	cli         *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	logg        *logger.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logg *logger.Logger) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{
		cli:         cli,
		model:       cfg.GeminiModel,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxOutputTokens),
		logg:        logg,
	}, nil
}

func (g *GeminiClient) SetModel(name string) { g.model = name }
func (g *GeminiClient) Model() string        { return g.model }

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if g.logg != nil {
		ctx = g.logg.WithFields(ctx, map[string]any{
			"provider":       "gemini",
			"model":          g.model,
			"prompt_preview": preview(prompt),
		})
		g.logg.Info(ctx, "llm request")
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(g.temperature),
			MaxOutputTokens: g.maxTokens,
		},
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &TransportError{
				Provider:   "gemini",
				Status:     apiErr.Code,
				StatusText: apiErr.Status,
				Body:       apiErr.Message,
			}
		}
		return "", &TransportError{Provider: "gemini", StatusText: err.Error()}
	}

	if len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == "" {
		body, _ := json.Marshal(resp)
		return "", &MalformedResponseError{Provider: "gemini", Body: string(body)}
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if g.logg != nil {
		ctx = g.logg.WithField(ctx, "response_preview", preview(text))
		g.logg.Info(ctx, "llm response")
	}
	return text, nil
}
