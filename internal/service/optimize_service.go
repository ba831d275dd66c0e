package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/maheshrc27/scrapeflow/configs"
	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const optimizerSystemMessage = "You are a professional content optimizer for LinkedIn."

var stylePrompts = map[models.PostStyle]string{
	models.PostStyleNews:     "Transform this content into a professional news-style LinkedIn post:",
	models.PostStyleInsights: "Extract key industry insights from this content and create an engaging LinkedIn post:",
	models.PostStyleSummary:  "Create a concise summary of this content for LinkedIn:",
	models.PostStyleQuotes:   "Extract and highlight key quotes and insights from this content for LinkedIn:",
}

const (
	promptContentRunes   = 1000
	fallbackExcerptRunes = 200
	summaryRunes         = 500
)

type OptimizeService interface {
	// Optimize returns generated post text. Any failure wraps
	// ErrOptimizationUnavailable.
	Optimize(ctx context.Context, title, content string, style models.PostStyle) (string, error)
}

type optimizeService struct {
	client  openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

func NewOptimizeService(cfg config.DeepSeek, timeout time.Duration) OptimizeService {
	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
	return &optimizeService{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		enabled: cfg.APIKey != "",
	}
}

func (s *optimizeService) Optimize(ctx context.Context, title, content string, style models.PostStyle) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("%w: no api key configured", ErrOptimizationUnavailable)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(optimizerSystemMessage),
			openai.UserMessage(BuildPrompt(title, content, style)),
		},
		Model:       s.model,
		MaxTokens:   openai.Int(500),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("%w: %v", ErrOptimizationUnavailable, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrOptimizationUnavailable)
	}

	text := cleanGenerated(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty content returned", ErrOptimizationUnavailable)
	}
	return text, nil
}

// BuildPrompt renders the user message sent to the model. Unknown styles use
// the insights prompt.
func BuildPrompt(title, content string, style models.PostStyle) string {
	prompt, ok := stylePrompts[style]
	if !ok {
		prompt = stylePrompts[models.PostStyleInsights]
	}
	return fmt.Sprintf("%s\n\nTitle: %s\n\nContent: %s...", prompt, title, truncateRunes(content, promptContentRunes))
}

func cleanGenerated(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	return strings.TrimSpace(text)
}

// FallbackPost builds the deterministic post used when optimization is
// unavailable. It never uses the schedule's custom template.
func FallbackPost(schedule *models.Schedule, title, content, sourceURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔥 New %s Update 🔥\n\n", schedule.Topic)
	fmt.Fprintf(&b, "%s\n\n", title)
	fmt.Fprintf(&b, "Key Insights:\n%s...\n\n", truncateRunes(content, fallbackExcerptRunes))
	fmt.Fprintf(&b, "Read more: %s\n\n", sourceURL)
	fmt.Fprintf(&b, "#%s #Innovation #Technology", strings.Join(strings.Fields(schedule.Topic), ""))
	return b.String()
}

// ApplyTemplate lays generated post text out with the schedule's custom
// template. Placeholders are {post}, {title}, {summary}, {url} and {topic};
// without a template the post is returned as is.
func ApplyTemplate(schedule *models.Schedule, post, title, content, sourceURL string) string {
	tmpl := strings.TrimSpace(schedule.CustomTemplate)
	if tmpl == "" {
		return post
	}
	r := strings.NewReplacer(
		"{post}", post,
		"{title}", title,
		"{summary}", Summarize(content),
		"{url}", sourceURL,
		"{topic}", schedule.Topic,
	)
	return r.Replace(tmpl)
}

// Summarize is the stored summary of extracted content.
func Summarize(content string) string {
	return truncateRunes(content, summaryRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
