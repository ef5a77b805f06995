package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/config"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
)

// OpenAIClient calls an OpenAI-compatible chat-completions endpoint over
// plain HTTP.
type OpenAIClient struct {
	http        *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float32
	maxTokens   int
	logg        *logger.Logger
}

func NewOpenAIClient(cfg config.LLMConfig, logg *logger.Logger) *OpenAIClient {
	return &OpenAIClient{
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		baseURL:     cfg.OpenAIBaseURL,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		logg:        logg,
	}
}

func (o *OpenAIClient) SetModel(name string) { o.model = name }
func (o *OpenAIClient) Model() string        { return o.model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if o.logg != nil {
		ctx = o.logg.WithFields(ctx, map[string]any{
			"provider":       "openai",
			"model":          o.model,
			"prompt_preview": preview(prompt),
		})
		o.logg.Info(ctx, "llm request")
	}

	body, _ := json.Marshal(chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &TransportError{Provider: "openai", StatusText: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{
			Provider:   "openai",
			Status:     resp.StatusCode,
			StatusText: resp.Status,
			Body:       string(raw),
		}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &MalformedResponseError{Provider: "openai", Body: string(raw)}
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", &MalformedResponseError{Provider: "openai", Body: string(raw)}
	}

	text := out.Choices[0].Message.Content
	if o.logg != nil {
		ctx = o.logg.WithField(ctx, "response_preview", preview(text))
		o.logg.Info(ctx, "llm response")
	}
	return text, nil
}
