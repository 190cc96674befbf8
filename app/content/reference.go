package content

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// ReferenceSource returns plain reference text for a URL.
type ReferenceSource interface {
	Run(ctx context.Context, pageURL string) (string, error)
}

// ReferenceFetcher downloads a page and extracts its readable text.
type ReferenceFetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxChars   int
}

func NewReferenceFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *ReferenceFetcher {
	return &ReferenceFetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
		maxChars:   1500,
	}
}

func (f *ReferenceFetcher) Run(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}

	data, err := fetch(ctx, f.httpClient, pageURL, f.userAgent, f.timeout)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsed)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		return "", fmt.Errorf("no content extracted from %s", pageURL)
	}

	if runes := []rune(text); len(runes) > f.maxChars {
		text = string(runes[:f.maxChars])
	}

	slog.Debug("Reference extracted", "url", pageURL, "title", article.Title, "length", len(text))

	return text, nil
}
