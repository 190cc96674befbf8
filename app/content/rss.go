package content

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/autoblog/app/database"
)

type FeedInfo struct {
	Title       string
	Link        string // Site base URL
	Description string
	Language    string
	Generator   string
}

// FeedWriter renders generated posts as an RSS 2.0 document.
type FeedWriter struct{}

func NewFeedWriter() *FeedWriter {
	return &FeedWriter{}
}

func (w *FeedWriter) Run(info FeedInfo, posts []database.Post) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	w.writeElement(&buf, "title", info.Title, 4)
	w.writeElement(&buf, "link", info.Link, 4)
	w.writeElement(&buf, "description", cmp.Or(info.Description, info.Title), 4)

	if info.Link != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(info.Link+"/feeds/posts")))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(posts) > 0 {
		lastBuildDate = cmp.Or(posts[0].CreatedAt, posts[0].GeneratedAt, lastBuildDate)
	}

	w.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	w.writeElement(&buf, "generator", info.Generator, 4)
	w.writeElement(&buf, "language", info.Language, 4)

	for _, post := range posts {
		w.writeItem(&buf, info, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (w *FeedWriter) writeItem(buf *bytes.Buffer, info FeedInfo, post database.Post) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(post.ID))
	buf.WriteString("</guid>\n")

	w.writeElement(buf, "title", post.Title, 6)
	if info.Link != "" {
		w.writeElement(buf, "link", fmt.Sprintf("%s/posts/%s", info.Link, post.ID), 6)
	}
	w.writeElement(buf, "description", cmp.Or(post.Excerpt, "No description available"), 6)

	if post.ContentHTML != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(post.ContentHTML, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	w.writeElement(buf, "pubDate", cmp.Or(post.CreatedAt, post.GeneratedAt).Format(time.RFC1123Z), 6)
	w.writeElement(buf, "author", post.Author, 6)
	w.writeElement(buf, "category", post.Category, 6)

	for _, tag := range post.Tags {
		if tag != post.Category {
			w.writeElement(buf, "category", tag, 6)
		}
	}

	buf.WriteString("    </item>\n")
}

func (w *FeedWriter) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
