package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var _ PostRepository = (*PostRepositoryImpl)(nil)

type PostRepositoryImpl struct {
	db  *DB
	now func() time.Time
}

func NewPostRepository(db *DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db, now: time.Now}
}

func (r *PostRepositoryImpl) CreatePost(ctx context.Context, post Post) (string, error) {
	if post.Tags == nil {
		post.Tags = []string{}
	}
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}

	id := uuid.NewString()
	createdAt := r.now().UTC()
	generatedAt := post.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = createdAt
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (
			id, title, content, content_html, excerpt, category, tags,
			author, status, read_time, source, model, generated_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, post.Title, post.Content, post.ContentHTML, post.Excerpt, post.Category, string(tags),
		post.Author, post.Status, post.ReadTime, post.Source, post.Model,
		formatTime(generatedAt), formatTime(createdAt))
	if err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	return id, nil
}

func (r *PostRepositoryImpl) GetRecentPosts(ctx context.Context, query PostQuery) ([]Post, int, error) {
	where, args := buildPostFilters(query)

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, content_html, excerpt, category, tags,
		       author, status, read_time, source, model, generated_at, created_at
		FROM posts`+where+`
		ORDER BY created_at DESC
		LIMIT ?
	`, append(args, query.EffectiveLimit())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get recent posts: %w", err)
	}
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		var post Post
		var tags, generatedAt, createdAt string
		err := rows.Scan(
			&post.ID, &post.Title, &post.Content, &post.ContentHTML, &post.Excerpt,
			&post.Category, &tags, &post.Author, &post.Status, &post.ReadTime,
			&post.Source, &post.Model, &generatedAt, &createdAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post row: %w", err)
		}

		if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
			return nil, 0, fmt.Errorf("failed to decode tags of post %s: %w", post.ID, err)
		}
		if post.GeneratedAt, err = parseTime(generatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to parse generated_at of post %s: %w", post.ID, err)
		}
		if post.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, 0, fmt.Errorf("failed to parse created_at of post %s: %w", post.ID, err)
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, total, nil
}

func (r *PostRepositoryImpl) GetPostCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

func buildPostFilters(query PostQuery) (string, []any) {
	var conditions []string
	var args []any

	filters := []struct {
		column string
		value  string
	}{
		{"category", query.Category},
		{"author", query.Author},
		{"source", query.Source},
	}
	for _, f := range filters {
		if f.value == "" {
			continue
		}
		conditions = append(conditions, f.column+" = ?")
		args = append(args, f.value)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Timestamps are stored as fixed-width UTC strings so lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
