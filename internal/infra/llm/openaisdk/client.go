// Package openaisdk adapts the official OpenAI Go SDK to the chat client
// contract used by the summarizer.
package openaisdk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/yanqian/announcement-relay/internal/infra/llm/chatgpt"
)

// Client sends chat completions through the SDK.
type Client struct {
	client openai.Client
}

// NewClient builds an SDK backed client. SDK retries are disabled so a
// failure surfaces to the caller immediately.
func NewClient(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &Client{client: openai.NewClient(opts...)}, nil
}

// CreateChatCompletion satisfies the same contract as the REST client.
func (c *Client) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
		Temperature: openai.Float(float64(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return chatgpt.ChatCompletionResponse{}, fmt.Errorf("sdk chat completion: %w", err)
	}

	out := chatgpt.ChatCompletionResponse{
		Choices: make([]chatgpt.Choice, 0, len(resp.Choices)),
	}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, chatgpt.Choice{
			Message: chatgpt.Message{
				Role:    string(choice.Message.Role),
				Content: choice.Message.Content,
			},
			FinishReason: string(choice.FinishReason),
		})
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &chatgpt.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}
	return out, nil
}
