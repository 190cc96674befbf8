package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/autoblog/app/content"
	"github.com/lysyi3m/autoblog/app/database"
)

const (
	AutoAuthor    = "AI助手"
	StatusPublish = "published"
)

// ContentGenerator produces an article body for a topic. It never fails; errors become fallbacks.
type ContentGenerator interface {
	Run(ctx context.Context, topic content.Topic) content.Outcome
}

var (
	_ ContentGenerator = (*content.Generator)(nil)
	_ TaskInterface    = (*GeneratePostTask)(nil)
)

type MarkdownRenderer interface {
	Run(markdown string) (string, error)
}

// CycleResult summarizes one generation cycle.
type CycleResult struct {
	ID         string        `json:"id"`
	Success    bool          `json:"success"`
	PostID     string        `json:"postId,omitempty"`
	Title      string        `json:"title"`
	Category   string        `json:"category"`
	ReadTime   int           `json:"readTime"`
	Excerpt    string        `json:"excerpt"`
	Source     string        `json:"source"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"durationMs"` // Duration in whole milliseconds
}

// GeneratePostTask runs one cycle: topic selection, generation and persistence.
type GeneratePostTask struct {
	Task
	customTopic *content.Topic
	catalog     *content.Catalog
	generator   ContentGenerator
	renderer    MarkdownRenderer
	postRepo    database.PostRepository
	now         func() time.Time

	topic   content.Topic
	post    database.Post
	outcome content.Outcome
}

func NewGeneratePostTask(customTopic *content.Topic, catalog *content.Catalog, generator ContentGenerator,
	renderer MarkdownRenderer, postRepo database.PostRepository) *GeneratePostTask {
	return &GeneratePostTask{
		Task:        NewTask(TaskTypeGeneratePost),
		customTopic: customTopic,
		catalog:     catalog,
		generator:   generator,
		renderer:    renderer,
		postRepo:    postRepo,
		now:         time.Now,
	}
}

func (t *GeneratePostTask) Execute(ctx context.Context) error {
	t.topic = t.catalog.Pick(t.customTopic)

	t.outcome = t.generator.Run(ctx, t.topic)

	t.post = database.Post{
		Title:       t.topic.Title,
		Content:     t.outcome.Body,
		Excerpt:     content.Excerpt(t.outcome.Body),
		Category:    t.topic.Category,
		Tags:        content.Tags(t.topic.Keywords),
		Author:      AutoAuthor,
		Status:      StatusPublish,
		ReadTime:    content.ReadTime(t.outcome.Body),
		Source:      string(t.outcome.Kind),
		Model:       t.outcome.Model,
		GeneratedAt: t.now().UTC(),
	}

	if t.renderer != nil {
		html, err := t.renderer.Run(t.outcome.Body)
		if err != nil {
			slog.Warn("Markdown rendering failed, storing markdown only", "id", t.ID, "error", err)
		} else {
			t.post.ContentHTML = html
		}
	}

	id, err := t.postRepo.CreatePost(ctx, t.post)
	if err != nil {
		return fmt.Errorf("failed to persist post: %w", err)
	}
	t.post.ID = id

	return nil
}

// Result builds the cycle summary from the task state and its execution error.
func (t *GeneratePostTask) Result(err error) CycleResult {
	result := CycleResult{
		ID:       t.ID,
		Success:  err == nil,
		PostID:   t.post.ID,
		Title:    t.topic.Title,
		Category: t.topic.Category,
		ReadTime: t.post.ReadTime,
		Excerpt:  t.post.Excerpt,
		Source:   t.post.Source,
		Duration: t.GetDuration(),
	}
	result.DurationMs = result.Duration.Milliseconds()
	if t.StartedAt != nil {
		result.StartedAt = *t.StartedAt
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// Pipeline executes generation cycles.
type Pipeline struct {
	catalog   *content.Catalog
	generator ContentGenerator
	renderer  MarkdownRenderer
	postRepo  database.PostRepository
}

func NewPipeline(catalog *content.Catalog, generator ContentGenerator, renderer MarkdownRenderer,
	postRepo database.PostRepository) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		generator: generator,
		renderer:  renderer,
		postRepo:  postRepo,
	}
}

// RunCycle runs one cycle. Failures are logged and reported in the result, never returned.
func (p *Pipeline) RunCycle(ctx context.Context, customTopic *content.Topic) CycleResult {
	task := NewGeneratePostTask(customTopic, p.catalog, p.generator, p.renderer, p.postRepo)
	task.Start()

	err := task.Execute(ctx)
	task.Finish()
	result := task.Result(err)

	if err != nil {
		slog.Error("Task execution failed",
			"type", string(task.GetType()),
			"id", task.GetID(),
			"topic", result.Title,
			"source", result.Source,
			"error", err)
		return result
	}

	if task.outcome.Err != nil {
		slog.Warn("Post generated from fallback template", "id", task.GetID(), "topic", result.Title, "cause", task.outcome.Err)
	}

	slog.Info("Task completed",
		"type", string(task.GetType()),
		"id", task.GetID(),
		"post_id", result.PostID,
		"topic", result.Title,
		"category", result.Category,
		"source", result.Source,
		"read_time", result.ReadTime,
		"tokens", task.outcome.Usage.TotalTokens,
		"duration", result.Duration)

	return result
}
