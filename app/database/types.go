package database

import (
	"context"
	"time"
)

type Post struct {
	ID          string
	Title       string
	Content     string // Markdown body
	ContentHTML string // Rendered body, empty when rendering failed
	Excerpt     string
	Category    string
	Tags        []string
	Author      string
	Status      string
	ReadTime    int    // Minutes
	Source      string // "generated" or "fallback"
	Model       string // Model that produced the body, empty for fallback
	GeneratedAt time.Time
	CreatedAt   time.Time
}

type PostQuery struct {
	Category string
	Author   string
	Source   string
	Limit    int
}

const (
	DefaultQueryLimit = 20
	MaxQueryLimit     = 100
)

// EffectiveLimit clamps the query limit into [1, MaxQueryLimit].
func (q PostQuery) EffectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return DefaultQueryLimit
	case q.Limit > MaxQueryLimit:
		return MaxQueryLimit
	default:
		return q.Limit
	}
}

type PostRepository interface {
	CreatePost(ctx context.Context, post Post) (string, error)
	GetRecentPosts(ctx context.Context, query PostQuery) ([]Post, int, error)
	GetPostCount(ctx context.Context) (int, error)
}
