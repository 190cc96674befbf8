package leancloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/autoblog/app/database"
)

func TestPostStoreCreatePost(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1.1/classes/BlogPost", r.URL.Path)
		assert.Equal(t, "app-id", r.Header.Get("X-LC-Id"))
		assert.Equal(t, "app-key", r.Header.Get("X-LC-Key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"objectId":"5f1a","createdAt":"2024-05-01T08:00:00.000Z"}`))
	}))
	defer server.Close()

	store := NewPostStore(NewClient(server.URL, "app-id", "app-key", nil), "BlogPost")
	generatedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	id, err := store.CreatePost(context.Background(), database.Post{
		Title:       "标题",
		Content:     "# 标题",
		Category:    "技术",
		Author:      "AI助手",
		ReadTime:    1,
		GeneratedAt: generatedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "5f1a", id)
	assert.Equal(t, "标题", received["title"])
	assert.Equal(t, "技术", received["category"])
	assert.Equal(t, []any{}, received["tags"])
	assert.EqualValues(t, generatedAt.UnixMilli(), received["generatedAt"])
}

func TestPostStoreGetRecentPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		query := r.URL.Query()
		assert.Equal(t, `{"category":"技术"}`, query.Get("where"))
		assert.Equal(t, "-createdAt", query.Get("order"))
		assert.Equal(t, "5", query.Get("limit"))
		assert.Equal(t, "1", query.Get("count"))

		w.Write([]byte(`{
			"results": [
				{"objectId": "a1", "title": "one", "category": "技术", "tags": ["AI"], "readTime": 3,
				 "generatedAt": 1714550400000, "createdAt": "2024-05-01T08:00:00.000Z"}
			],
			"count": 7
		}`))
	}))
	defer server.Close()

	store := NewPostStore(NewClient(server.URL, "app-id", "app-key", nil), "BlogPost")

	posts, total, err := store.GetRecentPosts(context.Background(), database.PostQuery{Category: "技术", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "a1", posts[0].ID)
	assert.Equal(t, []string{"AI"}, posts[0].Tags)
	assert.Equal(t, 3, posts[0].ReadTime)
	assert.Equal(t, int64(1714550400000), posts[0].GeneratedAt.UnixMilli())
	assert.Equal(t, 2024, posts[0].CreatedAt.Year())
}

func TestPostStoreGetPostCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"results": [], "count": 12}`))
	}))
	defer server.Close()

	store := NewPostStore(NewClient(server.URL, "app-id", "app-key", nil), "BlogPost")

	count, err := store.GetPostCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestClientReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":401,"error":"Unauthorized."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "app-id", "wrong", nil)

	_, err := client.Create(context.Background(), "BlogPost", map[string]string{"title": "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.EqualValues(t, 401, apiErr.Code)
	assert.Equal(t, "Unauthorized.", apiErr.Message)
}

func TestClientRejectsMalformedQueryResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "app-id", "app-key", nil).Query(context.Background(), "BlogPost", Query{})
	assert.Error(t, err)
}
