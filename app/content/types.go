package content

// Topic is a subject an article can be written about.
type Topic struct {
	Title        string   `yaml:"title" json:"title"`
	Keywords     []string `yaml:"keywords" json:"keywords"`
	Category     string   `yaml:"category" json:"category"`
	ReferenceURL string   `yaml:"reference_url" json:"referenceUrl,omitempty"`
}

// Valid reports whether the topic has a title, at least one keyword and a category.
func (t Topic) Valid() bool {
	return t.Title != "" && len(t.Keywords) > 0 && t.Category != ""
}

type OutcomeKind string

const (
	OutcomeGenerated OutcomeKind = "generated"
	OutcomeFallback  OutcomeKind = "fallback"
)

// Outcome is the result of one generation attempt. Body is never empty.
type Outcome struct {
	Kind  OutcomeKind
	Body  string
	Model string
	Usage Usage
	Err   error // Cause of the fallback, nil for generated bodies
}

type Usage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
	TotalTokens      int64 `json:"totalTokens"`
}
