package cfg

import "time"

const (
	// OpenAIMaxRetries is the number of retries after a failed completion attempt.
	OpenAIMaxRetries = 2

	// RetryBackoff bounds the wait openai-go inserts before each retry.
	RetryBackoff = 8 * time.Second

	// PersistMargin is left after generation for rendering, the store write and the response.
	PersistMargin = 30 * time.Second
)

// GenerationTimeout bounds one article generation: every completion attempt with its
// backoff, plus the reference fetch when enabled. Generation past it falls back to the template.
func (c *Cfg) GenerationTimeout() time.Duration {
	attempts := time.Duration(OpenAIMaxRetries + 1)
	timeout := attempts*c.OpenAITimeout + time.Duration(OpenAIMaxRetries)*RetryBackoff
	if c.FetchReferences {
		timeout += c.ReferenceTimeout
	}
	return timeout
}

// WriteTimeout is the HTTP write timeout. It outlasts a full request cycle so
// POST /generate always answers with a JSON body.
func (c *Cfg) WriteTimeout() time.Duration {
	return c.GenerationTimeout() + PersistMargin
}
