package llm

import "context"

// Client is a minimal completion interface to allow pluggable providers.
// Implementations forward one prompt to one upstream call with no retries.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Defaults applied when configuration leaves the model empty.
const (
	DefaultAnthropicModel = "claude-3-5-haiku-20241022"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultMaxTokens      = 1000
)
