package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const apiVersion = "2025-01-01-preview"

// Config — явная конфигурация генератора AI-саммари (Azure OpenAI).
// Если Endpoint или APIKey пустые, генерация молча отключена.
type Config struct {
	Endpoint      string
	APIKey        string
	DeploymentID  string
	Temperature   float64
	MaxTokens     int
	EnableCaching bool
}

// Client обращается к chat-completions эндпоинту Azure OpenAI.
// Любой сбой (сеть, не-2xx статус, неожиданная форма ответа) схлопывается
// в единый исход "недоступно": второй результат false, ошибка не возвращается.
type Client struct {
	config Config
	logger *slog.Logger
	http   *resty.Client

	mu    sync.RWMutex
	cache map[string]string
}

// NewClient создает новый экземпляр Client.
func NewClient(config Config, logger *slog.Logger) *Client {
	if config.DeploymentID == "" {
		config.DeploymentID = "gpt-35-turbo"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}
	return &Client{
		config: config,
		logger: logger,
		http:   resty.New().SetTimeout(30 * time.Second),
		cache:  make(map[string]string),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
	Temperature         *float64      `json:"temperature,omitempty"`
	Model               string        `json:"model"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateFilmSummary генерирует саммари настроения отзывов о фильме.
// Возвращает (саммари, true) при успехе и ("", false), когда генерация
// отключена или любой этап вызова провалился.
func (c *Client) GenerateFilmSummary(ctx context.Context, filmTitle, reviews string) (string, bool) {
	if c.config.Endpoint == "" || c.config.APIKey == "" {
		c.logger.WarnContext(ctx, "Azure OpenAI configuration is not set. AI summary generation skipped.")
		return "", false
	}

	cacheKey := filmTitle + "\x00" + reviews
	if c.config.EnableCaching {
		c.mu.RLock()
		cached, ok := c.cache[cacheKey]
		c.mu.RUnlock()
		if ok {
			c.logger.DebugContext(ctx, "AI summary served from cache", slog.String("film", filmTitle))
			return cached, true
		}
	}

	prompt := fmt.Sprintf(`Summarize what reviewers are saying about the film '%s' based on these review comments:

%s

Provide a 1-2 sentence summary of the overall sentiment and key themes mentioned in the reviews.`, filmTitle, reviews)

	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant that writes engaging film summaries."},
			{Role: "user", Content: prompt},
		},
		MaxCompletionTokens: c.config.MaxTokens,
		Model:               c.config.DeploymentID,
	}
	if c.config.Temperature > 0 {
		temperature := c.config.Temperature
		reqBody.Temperature = &temperature
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.config.Endpoint, "/"), c.config.DeploymentID, apiVersion)

	var result chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.config.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		SetResult(&result).
		Post(url)
	if err != nil {
		c.logger.WarnContext(ctx, "Azure OpenAI request failed", slog.String("film", filmTitle), slog.String("error", err.Error()))
		return "", false
	}
	if !resp.IsSuccess() {
		c.logger.WarnContext(ctx, "Azure OpenAI API returned non-success status",
			slog.Int("status", resp.StatusCode()), slog.String("body", resp.String()))
		return "", false
	}
	if result.Error != nil {
		c.logger.WarnContext(ctx, "Azure OpenAI API returned error payload", slog.String("error", result.Error.Message))
		return "", false
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		c.logger.WarnContext(ctx, "Unexpected response format from Azure OpenAI API", slog.String("film", filmTitle))
		return "", false
	}

	generated := result.Choices[0].Message.Content
	if c.config.EnableCaching {
		c.mu.Lock()
		c.cache[cacheKey] = generated
		c.mu.Unlock()
	}

	c.logger.InfoContext(ctx, "Generated AI summary for film", slog.String("film", filmTitle))
	return generated, true
}
