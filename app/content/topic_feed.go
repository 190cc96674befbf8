package content

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// TopicFeedImporter turns the latest entries of an RSS/Atom feed into topics.
type TopicFeedImporter struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
	timeout    time.Duration
	limit      int
}

func NewTopicFeedImporter(httpClient *http.Client, userAgent string, timeout time.Duration, limit int) *TopicFeedImporter {
	return &TopicFeedImporter{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
		timeout:    timeout,
		limit:      limit,
	}
}

func (i *TopicFeedImporter) Run(ctx context.Context, feedURL string) ([]Topic, error) {
	data, err := fetch(ctx, i.httpClient, feedURL, i.userAgent, i.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := i.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	feedTitle := cmp.Or(strings.TrimSpace(feed.Title), "资讯")

	topics := make([]Topic, 0, min(len(feed.Items), i.limit))
	for _, item := range feed.Items {
		if len(topics) >= i.limit {
			break
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		keywords := Tags(item.Categories)
		if len(keywords) == 0 {
			keywords = []string{feedTitle}
		}

		topics = append(topics, Topic{
			Title:        title,
			Keywords:     keywords,
			Category:     keywords[0],
			ReferenceURL: item.Link,
		})
	}

	return topics, nil
}
