package summarizer

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mrlokans/bookshelf/internal/validation"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Client implements Generator over an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	model string
	opts  []option.RequestOption
}

// Config holds client settings. BaseURL is optional and allows pointing at
// any OpenAI-compatible provider.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewClient builds a summary client. An empty API key is an error; callers
// that can live without summaries should treat it as "not configured" and
// carry on.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{model: model, opts: opts}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate asks the model for a summary of the given book.
func (c *Client) Generate(ctx context.Context, title, author string) (string, error) {
	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(title, author)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", ErrEmptySummary
	}

	return truncateSummary(summary), nil
}

// truncateSummary enforces the summary ceiling on model output, cutting at
// a rune boundary. Models asked for 300 words should never hit this.
func truncateSummary(s string) string {
	if utf8.RuneCountInString(s) <= validation.MaxSummaryLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:validation.MaxSummaryLength]))
}

// IsNotConfigured reports whether err means summary generation is simply
// unavailable rather than broken.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
