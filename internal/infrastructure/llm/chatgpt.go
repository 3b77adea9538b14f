package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsDesk/internal/config"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/judge"
	"NewsDesk/internal/ports"
)

const serviceName = "chatgpt judge"

// ChatGPTClient implements ports.Judge backed by OpenAI-compatible chat
// completion APIs.
type ChatGPTClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Judge = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.OpenAIConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Judge sends the task prompt for one article and parses the verdict out of
// the completion text.
func (c *ChatGPTClient) Judge(ctx context.Context, task domain.JudgeTask, article domain.Article) (domain.Verdict, error) {
	if c == nil {
		return domain.Verdict{Task: task}, fmt.Errorf("chatgpt client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.Verdict{Task: task}, &domain.ExternalCallError{Service: serviceName, Err: fmt.Errorf("client misconfigured")}
	}

	content, err := c.complete(ctx, judge.SystemPrompt(task), judge.Prompt(task, article), maxTokens(task))
	if err != nil {
		return domain.Verdict{Task: task}, err
	}
	return judge.Parse(task, content)
}

// maxTokens caps the completion. A print verdict is a bare score; a
// relevance verdict spans several labeled lines.
func maxTokens(task domain.JudgeTask) int {
	if task == domain.TaskRelevance {
		return 200
	}
	return 10
}

func (c *ChatGPTClient) complete(ctx context.Context, system, user string, tokens int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": judge.Temperature,
		"max_tokens":  tokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.ExternalCallError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &domain.ExternalCallError{
			Service: serviceName,
			Err:     fmt.Errorf("chat error %s: %s", resp.Status, strings.TrimSpace(string(payload))),
		}
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &domain.ExternalCallError{Service: serviceName, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &domain.ParseError{Service: serviceName, Err: fmt.Errorf("no choices in response")}
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
