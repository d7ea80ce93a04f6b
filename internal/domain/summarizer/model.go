package summarizer

import "github.com/yanqian/announcement-relay/pkg/metrics"

// Config carries the completion parameters.
type Config struct {
	Model          string
	MaxTokens      int
	Temperature    float32
	MaxInputLength int
	SystemPrompt   string
}

// Input is the announcement text to condense.
type Input struct {
	Company string
	Text    string
}

// Result is the generated summary.
type Result struct {
	Summary    string
	Truncated  bool
	TokenUsage *metrics.TokenUsage
}
