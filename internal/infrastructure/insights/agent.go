// Package insights generates the optional natural-language narrative for a
// finished wallet report through a hosted LLM API.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/config"
	"wallet_analyzer/internal/domain/entity"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	openAIBaseURL    = "https://api.openai.com"
)

type agent struct {
	http      *resty.Client
	baseURL   string
	provider  string
	model     string
	maxTokens int
	apiKey    string
	logger    *zap.Logger
}

// NewAgent creates the narrative agent for the configured provider. Returns
// nil when no API key is configured; callers treat a nil agent as the feature
// being disabled.
func NewAgent(cfg config.InsightsConfig, logger *zap.Logger) port.InsightsAgent {
	if cfg.APIKey == "" {
		return nil
	}
	baseURL := anthropicBaseURL
	if cfg.Provider == "openai" {
		baseURL = openAIBaseURL
	}
	return &agent{
		http:      resty.New().SetTimeout(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		baseURL:   baseURL,
		provider:  cfg.Provider,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		apiKey:    cfg.APIKey,
		logger:    logger.Named("InsightsAgent"),
	}
}

// GenerateInsights produces the narrative for a finished report.
func (a *agent) GenerateInsights(ctx context.Context, report *entity.WalletReport) (string, error) {
	prompt := buildPrompt(report)
	if a.provider == "openai" {
		return a.generateOpenAI(ctx, prompt)
	}
	return a.generateAnthropic(ctx, prompt)
}

func (a *agent) generateAnthropic(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":      a.model,
		"max_tokens": a.maxTokens,
		"system":     systemPrompt,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	resp, err := a.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", a.apiKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetBody(body).
		SetResult(&result).
		Post(a.baseURL + "/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic request failed with status %d", resp.StatusCode())
	}
	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic response contained no text content")
}

func (a *agent) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":      a.model,
		"max_tokens": a.maxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	resp, err := a.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+a.apiKey).
		SetBody(body).
		SetResult(&result).
		Post(a.baseURL + "/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("openai request failed with status %d", resp.StatusCode())
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai response contained no choices")
	}
	return result.Choices[0].Message.Content, nil
}
