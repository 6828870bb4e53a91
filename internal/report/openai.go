package report

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	dashboardSystemPrompt = "You are an assessment scoring engine for a consulting firm. " +
		"Reply with a single JSON object of the form " +
		`{"overallScore":int,"industryAverage":int,"summary":string,"dimensions":[{"name":string,"score":int,"explanation":string}]}. ` +
		"Scores are 0-100. Include every dimension named in the prompt, no others, and no prose outside the JSON."
	feedbackSystemPrompt = "You are a senior consultant writing a short, encouraging written assessment " +
		"for a prospective client. Write plain text with occasional **bold** emphasis. Do not use JSON."
)

// OpenAIConfig configures the OpenAI-backed generator. BaseURL supports
// OpenAI-compatible endpoints such as OpenRouter.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// OpenAIGenerator implements Generator against the OpenAI chat API.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
}

func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, kind Kind, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     g.cfg.Model,
		MaxTokens: g.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(kind)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(g.cfg.Temperature),
	}
	if kind == KindDashboard {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate %s: no choices in response", kind)
	}
	return resp.Choices[0].Message.Content, nil
}

func systemPrompt(kind Kind) string {
	if kind == KindDashboard {
		return dashboardSystemPrompt
	}
	return feedbackSystemPrompt
}
