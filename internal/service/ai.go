package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const maxSuggestedTitles = 5

// contentSnippetLimit keeps prompts bounded for long posts.
const contentSnippetLimit = 4000

type aiService struct {
	logger *zap.Logger
	httpClient *http.Client
}

func newAIService(logger *zap.Logger) AI {
	return &aiService{
		logger: logger,
		httpClient: &http.Client{Timeout: time.Minute},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (s *aiService) SuggestTitles(ctx context.Context, content string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Suggest %d short, catchy titles for the following blog post. Respond with a JSON array of strings and nothing else.\n\n%s",
		maxSuggestedTitles,
		contentSnippet(content),
	)

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &titles); err != nil {
		s.logger.Sugar().Errorf("failed to parse title suggestions from model response: %s", err.Error())
		return nil, ErrAIUnavailable
	}

	cleaned := make([]string, 0, maxSuggestedTitles)
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		cleaned = append(cleaned, title)
		if len(cleaned) == maxSuggestedTitles {
			break
		}
	}

	return cleaned, nil
}

func (s *aiService) Summarize(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following blog post in two or three sentences. Respond with the summary and nothing else.\n\n%s",
		contentSnippet(content),
	)

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(stripCodeFences(raw))
	if summary == "" {
		return "", ErrAIUnavailable
	}

	return summary, nil
}

func (s *aiService) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model: viper.GetString("ai.model"),
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal generate request: %s", err.Error())
		return "", ErrInternal
	}

	url := viper.GetString("ai.origin") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.logger.Sugar().Errorf("failed to create generate request: %s", err.Error())
		return "", ErrInternal
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to reach ai backend: %s", err.Error())
		return "", ErrAIUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Sugar().Errorf("ai backend returned status %d", resp.StatusCode)
		return "", ErrAIUnavailable
	}

	var generateResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generateResp); err != nil {
		s.logger.Sugar().Errorf("failed to decode ai backend response: %s", err.Error())
		return "", ErrAIUnavailable
	}

	return generateResp.Response, nil
}

func contentSnippet(content string) string {
	if len(content) > contentSnippetLimit {
		return content[:contentSnippetLimit]
	}
	return content
}

// stripCodeFences unwraps a response the model wrapped in a markdown
// code block, with or without a language tag.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.Index(trimmed, "\n"); newline >= 0 {
		firstLine := strings.TrimSpace(trimmed[:newline])
		if firstLine != "" && !strings.ContainsAny(firstLine, "[{\"") {
			trimmed = trimmed[newline+1:]
		}
	}

	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
