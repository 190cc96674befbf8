package leancloud

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/autoblog/app/database"
)

var _ database.PostRepository = (*PostStore)(nil)

// PostStore keeps generated posts in a LeanCloud class.
type PostStore struct {
	client *Client
	class  string
}

type postRecord struct {
	ObjectID    string   `json:"objectId,omitempty"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ContentHTML string   `json:"contentHtml"`
	Excerpt     string   `json:"excerpt"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
	Status      string   `json:"status"`
	ReadTime    int      `json:"readTime"`
	Source      string   `json:"source"`
	Model       string   `json:"model"`
	GeneratedAt int64    `json:"generatedAt"` // Unix milliseconds
	CreatedAt   string   `json:"createdAt,omitempty"`
}

func NewPostStore(client *Client, class string) *PostStore {
	return &PostStore{client: client, class: class}
}

func (s *PostStore) CreatePost(ctx context.Context, post database.Post) (string, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}
	record := postRecord{
		Title:       post.Title,
		Content:     post.Content,
		ContentHTML: post.ContentHTML,
		Excerpt:     post.Excerpt,
		Category:    post.Category,
		Tags:        post.Tags,
		Author:      post.Author,
		Status:      post.Status,
		ReadTime:    post.ReadTime,
		Source:      post.Source,
		Model:       post.Model,
		GeneratedAt: post.GeneratedAt.UnixMilli(),
	}

	id, err := s.client.Create(ctx, s.class, record)
	if err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}
	return id, nil
}

func (s *PostStore) GetRecentPosts(ctx context.Context, query database.PostQuery) ([]database.Post, int, error) {
	where := map[string]any{}
	if query.Category != "" {
		where["category"] = query.Category
	}
	if query.Author != "" {
		where["author"] = query.Author
	}
	if query.Source != "" {
		where["source"] = query.Source
	}

	result, err := s.client.Query(ctx, s.class, Query{
		Where: where,
		Order: "-createdAt",
		Limit: query.EffectiveLimit(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get recent posts: %w", err)
	}

	posts := make([]database.Post, 0, len(result.Results))
	for _, raw := range result.Results {
		var record postRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, 0, fmt.Errorf("failed to decode post: %w", err)
		}
		post := database.Post{
			ID:          record.ObjectID,
			Title:       record.Title,
			Content:     record.Content,
			ContentHTML: record.ContentHTML,
			Excerpt:     record.Excerpt,
			Category:    record.Category,
			Tags:        record.Tags,
			Author:      record.Author,
			Status:      record.Status,
			ReadTime:    record.ReadTime,
			Source:      record.Source,
			Model:       record.Model,
			GeneratedAt: time.UnixMilli(record.GeneratedAt).UTC(),
		}
		if createdAt, err := time.Parse(time.RFC3339Nano, record.CreatedAt); err == nil {
			post.CreatedAt = createdAt
		}
		posts = append(posts, post)
	}

	return posts, result.Count, nil
}

func (s *PostStore) GetPostCount(ctx context.Context) (int, error) {
	result, err := s.client.Query(ctx, s.class, Query{CountOnly: true})
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return result.Count, nil
}
