package content

import (
	"context"
	"time"
)

// LLMClient sends a prompt to a text completion model.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

type Completion struct {
	Text  string
	Model string
	Usage Usage
}

type LLMSettings struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}
