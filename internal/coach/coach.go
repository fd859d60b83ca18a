package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tradejournal/internal/config"
	"tradejournal/internal/journal"
	"tradejournal/internal/model"
)

// Placeholder is served whenever the commentary endpoint cannot be used.
const Placeholder = "AI coaching is unavailable right now. Review your losing trades for " +
	"missed stops, compare execution ratings against results, and keep position sizes consistent."

var errNoAPIKey = errors.New("coach api key is not set")

// Advice is the commentary returned to the journal UI.
type Advice struct {
	Commentary string `json:"commentary"`
	Degraded   bool   `json:"degraded"`
}

// Coach asks an OpenAI compatible chat completions endpoint for commentary.
type Coach struct {
	logger     *slog.Logger
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func New(logger *slog.Logger, cfg config.CoachConfig) *Coach {
	return &Coach{
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Review never fails. Any problem degrades to the placeholder text.
func (c *Coach) Review(ctx context.Context, trades []model.Trade, m journal.Metrics) Advice {
	text, err := c.complete(ctx, BuildPrompt(trades, m))
	if err != nil {
		c.logger.Warn("Coach unavailable, serving placeholder", "error", err)
		return Advice{Commentary: Placeholder, Degraded: true}
	}
	return Advice{Commentary: text}
}

func (c *Coach) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errNoAPIKey
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &model.TransportError{Op: "coach completion", Err: err}
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("completion response has no content")
	}
	return parsed.Choices[0].Message.Content, nil
}
