package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/autoblog/app/content"
	"github.com/lysyi3m/autoblog/app/database"
)

type memoryPostRepository struct {
	mu    sync.Mutex
	posts []database.Post
	err   error
}

var _ database.PostRepository = (*memoryPostRepository)(nil)

func (m *memoryPostRepository) CreatePost(_ context.Context, post database.Post) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	post.ID = "post-" + string(rune('a'+len(m.posts)))
	m.posts = append(m.posts, post)
	return post.ID, nil
}

func (m *memoryPostRepository) GetRecentPosts(_ context.Context, _ database.PostQuery) ([]database.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]database.Post(nil), m.posts...), len(m.posts), nil
}

func (m *memoryPostRepository) GetPostCount(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts), nil
}

type failingLLM struct{}

func (failingLLM) Complete(context.Context, content.Prompt) (content.Completion, error) {
	return content.Completion{}, errors.New("service unavailable")
}

type staticLLM struct{ text string }

func (s staticLLM) Complete(context.Context, content.Prompt) (content.Completion, error) {
	return content.Completion{Text: s.text, Model: "gpt-test"}, nil
}

func TestPipelineFallbackCycle(t *testing.T) {
	repo := &memoryPostRepository{}
	pipeline := NewPipeline(content.NewCatalog(), content.NewGenerator(failingLLM{}, "zh-Hans"), content.NewRenderer(), repo)

	custom := &content.Topic{
		Title:    "AI技术在现代Web开发中的应用",
		Keywords: []string{"AI", "Web开发", "AI"},
		Category: "技术",
	}
	result := pipeline.RunCycle(context.Background(), custom)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "post-a", result.PostID)
	assert.Equal(t, "AI技术在现代Web开发中的应用", result.Title)
	assert.Equal(t, "技术", result.Category)
	assert.Equal(t, string(content.OutcomeFallback), result.Source)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.StartedAt.IsZero())

	require.Len(t, repo.posts, 1)
	post := repo.posts[0]
	assert.Contains(t, post.Content, "AI技术在现代Web开发中的应用")
	assert.Contains(t, post.Content, "- AI的应用与发展")
	assert.Contains(t, post.Content, "- Web开发的应用与发展")
	assert.Contains(t, post.ContentHTML, "<h1>AI技术在现代Web开发中的应用</h1>")
	assert.Equal(t, []string{"AI", "Web开发"}, post.Tags)
	assert.Equal(t, AutoAuthor, post.Author)
	assert.Equal(t, StatusPublish, post.Status)
	assert.Equal(t, content.ReadTime(post.Content), post.ReadTime)
	assert.Equal(t, content.Excerpt(post.Content), post.Excerpt)
	assert.Equal(t, result.Excerpt, post.Excerpt)
	assert.True(t, strings.HasSuffix(post.Excerpt, "..."))
	assert.Empty(t, post.Model)
	assert.False(t, post.GeneratedAt.IsZero())
}

func TestPipelineGeneratedCycle(t *testing.T) {
	repo := &memoryPostRepository{}
	body := "# 云原生\n\n简短正文"
	pipeline := NewPipeline(content.NewCatalog(), content.NewGenerator(staticLLM{text: body}, "zh-Hans"), nil, repo)

	result := pipeline.RunCycle(context.Background(), nil)

	require.True(t, result.Success)
	assert.Equal(t, string(content.OutcomeGenerated), result.Source)
	assert.Equal(t, 1, result.ReadTime)
	assert.Equal(t, "云原生 简短正文", result.Excerpt)

	require.Len(t, repo.posts, 1)
	assert.Equal(t, body, repo.posts[0].Content)
	assert.Equal(t, "gpt-test", repo.posts[0].Model)
	assert.Empty(t, repo.posts[0].ContentHTML)

	var inCatalog bool
	for _, topic := range content.DefaultTopics {
		if topic.Title == result.Title {
			inCatalog = true
		}
	}
	assert.True(t, inCatalog, "random topic %q should come from the catalog", result.Title)
}

func TestPipelinePersistenceFailure(t *testing.T) {
	repo := &memoryPostRepository{err: errors.New("disk full")}
	pipeline := NewPipeline(content.NewCatalog(), content.NewGenerator(nil, "zh-Hans"), content.NewRenderer(), repo)

	result := pipeline.RunCycle(context.Background(), nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to persist post")
	assert.Contains(t, result.Error, "disk full")
	assert.Empty(t, result.PostID)
	assert.NotEmpty(t, result.Title)
}

func TestSchedulerSurvivesPersistenceFailure(t *testing.T) {
	repo := &memoryPostRepository{err: errors.New("disk full")}
	pipeline := NewPipeline(content.NewCatalog(), content.NewGenerator(nil, "zh-Hans"), content.NewRenderer(), repo)
	s := newTestScheduler(t, pipeline)

	_, err := s.Start(60)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.Status().FailedRuns == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.Status().IsRunning)

	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()

	result := s.RunOnce(context.Background(), nil)
	assert.True(t, result.Success)
	assert.True(t, s.Status().IsRunning)

	count, err := repo.GetPostCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCycleResultReportsDurationInMilliseconds(t *testing.T) {
	result := CycleResult{ID: "cycle-1", Success: true, Duration: 1500 * time.Millisecond, DurationMs: 1500}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 1500, decoded["durationMs"])
	assert.NotContains(t, decoded, "duration")
}

func TestPipelineSetsDurationMs(t *testing.T) {
	repo := &memoryPostRepository{}
	pipeline := NewPipeline(content.NewCatalog(), content.NewGenerator(nil, "zh-Hans"), nil, repo)

	result := pipeline.RunCycle(context.Background(), nil)

	require.True(t, result.Success)
	assert.Equal(t, result.Duration.Milliseconds(), result.DurationMs)
}
