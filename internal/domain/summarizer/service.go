package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/yanqian/announcement-relay/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/announcement-relay/pkg/errors"
	"github.com/yanqian/announcement-relay/pkg/metrics"
)

const (
	truncationMarker = "..."
	defaultCompany   = "the company"
)

// Service turns announcement text into a WhatsApp sized summary.
type Service interface {
	Summarize(ctx context.Context, in Input) (Result, error)
}

// ChatClient is satisfied by both the REST and the SDK backed clients.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// TokenCounter estimates prompt sizes when the API omits usage.
type TokenCounter interface {
	Count(text string) (int, bool)
}

type service struct {
	cfg     Config
	client  ChatClient
	counter TokenCounter
	logger  *slog.Logger
}

// NewService is a wire provider for the summarizer domain.
func NewService(cfg Config, client ChatClient, counter TokenCounter, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, counter: counter, logger: logger.With("component", "summarizer.service")}
}

func (s *service) Summarize(ctx context.Context, in Input) (Result, error) {
	text := normalize(in.Text)
	if text == "" {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "no meaningful text to summarize", nil)
	}
	text, truncated := truncate(text, s.cfg.MaxInputLength)
	if truncated {
		s.logger.Info("input truncated", "limit", s.cfg.MaxInputLength, "company", in.Company)
	}

	messages := s.buildMessages(in.Company, text)
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeLLM, "completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeLLM, "completion returned no choices", nil)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return Result{}, apperrors.Wrap(apperrors.CodeLLM, "completion returned empty content", nil)
	}
	s.logger.Debug("completion received", "content", summary)

	return Result{
		Summary:    summary,
		Truncated:  truncated,
		TokenUsage: s.usage(resp.Usage, messages),
	}, nil
}

func (s *service) usage(reported *chatgpt.Usage, messages []chatgpt.Message) *metrics.TokenUsage {
	if reported != nil {
		usage := metrics.TokenUsage{
			PromptTokens:     reported.PromptTokens,
			CompletionTokens: reported.CompletionTokens,
			TotalTokens:      reported.TotalTokens,
		}
		// Some compatible gateways send an all-zero usage block.
		if !usage.IsZero() {
			return &usage
		}
	}
	if s.counter == nil {
		return nil
	}
	total := 0
	for _, msg := range messages {
		n, ok := s.counter.Count(msg.Content)
		if !ok {
			return nil
		}
		total += n
	}
	return &metrics.TokenUsage{PromptTokens: total, TotalTokens: total, Estimated: true}
}

func (s *service) buildMessages(company, text string) []chatgpt.Message {
	company = strings.TrimSpace(company)
	if company == "" {
		company = defaultCompany
	}
	userContent := fmt.Sprintf(`You are a financial analyst specializing in Indian stock market announcements. Analyze and summarize the following corporate announcement document for %s.

Document Text:
%s

Provide a structured summary that includes:

1. *Document Type*: What type of announcement is this? (AGM, EGM, Quarterly Results, Dividend, Board Meeting, etc.)

2. *Summary*: A concise 2-3 sentence summary of the most important information

3. *Sentiment Analysis*: Assess the overall sentiment of the announcement (Positive, Negative or Neutral) and briefly explain your reasoning.

Format your response as a clear, structured summary that would be useful for investors and analysts.`, company, text)
	return []chatgpt.Message{
		{Role: "system", Content: s.cfg.SystemPrompt},
		{Role: "user", Content: userContent},
	}
}

// normalize collapses every whitespace run into one space.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// truncate keeps the first limit runes and appends a marker when it cuts.
func truncate(text string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:limit]) + truncationMarker, true
}
