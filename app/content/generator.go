package content

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrNoLLMClient = errors.New("no language model client configured")

// Generator writes article bodies, falling back to a fixed template when the model call fails.
type Generator struct {
	llm        LLMClient
	language   string
	references ReferenceSource
	timeout    time.Duration
}

// NewGenerator creates a generator writing in the language named by languageTag.
// A nil llm makes every outcome a fallback.
func NewGenerator(llm LLMClient, languageTag string) *Generator {
	return &Generator{
		llm:      llm,
		language: LanguageName(languageTag),
	}
}

// WithReferences enables reference text extraction for topics that carry a reference URL.
func (g *Generator) WithReferences(references ReferenceSource) *Generator {
	g.references = references
	return g
}

// WithTimeout bounds reference extraction and the model call together. When it
// expires the body falls back to the template. Zero means no bound.
func (g *Generator) WithTimeout(timeout time.Duration) *Generator {
	g.timeout = timeout
	return g
}

// Generate returns the article body for topic.
func (g *Generator) Generate(ctx context.Context, topic Topic) string {
	return g.Run(ctx, topic).Body
}

// Run generates an article body. Model failures are absorbed into a fallback outcome.
func (g *Generator) Run(ctx context.Context, topic Topic) Outcome {
	if g.llm == nil {
		return Outcome{Kind: OutcomeFallback, Body: FallbackBody(topic), Err: ErrNoLLMClient}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(topic, g.language, g.reference(ctx, topic))

	completion, err := g.llm.Complete(ctx, prompt)
	if err == nil && completion.Text == "" {
		err = errors.New("language model returned no text")
	}
	if err != nil {
		slog.Warn("Text generation failed, using fallback template", "topic", topic.Title, "error", err)
		return Outcome{Kind: OutcomeFallback, Body: FallbackBody(topic), Err: err}
	}

	return Outcome{
		Kind:  OutcomeGenerated,
		Body:  completion.Text,
		Model: completion.Model,
		Usage: completion.Usage,
	}
}

func (g *Generator) reference(ctx context.Context, topic Topic) string {
	if g.references == nil || topic.ReferenceURL == "" {
		return ""
	}

	text, err := g.references.Run(ctx, topic.ReferenceURL)
	if err != nil {
		slog.Warn("Reference extraction failed", "topic", topic.Title, "url", topic.ReferenceURL, "error", err)
		return ""
	}
	return text
}
