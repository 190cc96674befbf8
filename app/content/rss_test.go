package content

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/autoblog/app/database"
)

func TestRendererRun(t *testing.T) {
	html, err := NewRenderer().Run("# 标题\n\n- AI的应用与发展\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>标题</h1>")
	assert.Contains(t, html, "<li>AI的应用与发展</li>")
	assert.Contains(t, html, "<table>")
}

func TestFeedWriterRun(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	posts := []database.Post{
		{
			ID:          "post-1",
			Title:       "AI & Web",
			Excerpt:     "摘要",
			ContentHTML: "<p>正文 ]]> 结束</p>",
			Category:    "技术",
			Tags:        []string{"技术", "AI"},
			Author:      "AI助手",
			CreatedAt:   createdAt,
		},
	}

	rss, err := NewFeedWriter().Run(FeedInfo{
		Title:     "AutoBlog",
		Link:      "https://blog.example.com",
		Language:  "zh-Hans",
		Generator: "AutoBlog/test",
	}, posts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rss, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, rss, "<title>AI &amp; Web</title>")
	assert.Contains(t, rss, "<link>https://blog.example.com/posts/post-1</link>")
	assert.Contains(t, rss, `<atom:link href="https://blog.example.com/feeds/posts"`)
	assert.Contains(t, rss, "<pubDate>"+createdAt.Format(time.RFC1123Z)+"</pubDate>")
	assert.Equal(t, 1, strings.Count(rss, "<category>技术</category>"))
	assert.Contains(t, rss, "<category>AI</category>")

	var doc struct {
		Channel struct {
			Items []struct {
				Title   string `xml:"title"`
				Encoded string `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal([]byte(rss), &doc))
	require.Len(t, doc.Channel.Items, 1)
	assert.Equal(t, "<p>正文 ]]> 结束</p>", doc.Channel.Items[0].Encoded)
}

func TestFeedWriterEmpty(t *testing.T) {
	rss, err := NewFeedWriter().Run(FeedInfo{Title: "AutoBlog"}, nil)
	require.NoError(t, err)
	assert.Contains(t, rss, "<description>AutoBlog</description>")
	assert.NotContains(t, rss, "<item>")
	assert.NotContains(t, rss, "atom:link")
}
