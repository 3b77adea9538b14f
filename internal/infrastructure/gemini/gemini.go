package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"NewsDesk/internal/config"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/judge"
	"NewsDesk/internal/ports"
)

const serviceName = "gemini judge"

// Client implements ports.Judge on top of the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

var _ ports.Judge = (*Client)(nil)

// NewClient dials the Gemini API with the configured key.
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: cfg.Model}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// Judge sends the task prompt for one article and parses the verdict out of
// the generated text.
func (c *Client) Judge(ctx context.Context, task domain.JudgeTask, article domain.Article) (domain.Verdict, error) {
	if c == nil || c.client == nil {
		return domain.Verdict{Task: task}, fmt.Errorf("gemini client is nil")
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(float32(judge.Temperature))
	model.SetMaxOutputTokens(maxTokens(task))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(judge.SystemPrompt(task))},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(judge.Prompt(task, article)))
	if err != nil {
		return domain.Verdict{Task: task}, &domain.ExternalCallError{Service: serviceName, Err: err}
	}

	text := extractText(resp)
	if text == "" {
		return domain.Verdict{Task: task}, &domain.ParseError{Service: serviceName, Err: fmt.Errorf("empty response")}
	}
	return judge.Parse(task, text)
}

// maxTokens caps the generation. A print verdict is a bare score; a
// relevance verdict spans several labeled lines.
func maxTokens(task domain.JudgeTask) int32 {
	if task == domain.TaskRelevance {
		return 200
	}
	return 10
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}
