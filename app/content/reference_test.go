package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceFetcherExtractsText(t *testing.T) {
	paragraph := strings.Repeat("Serverless platforms let teams ship features without managing servers. ", 20)
	page := `<html><head><title>Serverless</title></head><body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article><h1>Serverless in practice</h1><p>` + paragraph + `</p><p>` + paragraph + `</p></article>
<footer>Copyright</footer>
</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer server.Close()

	fetcher := NewReferenceFetcher(server.Client(), "AutoBlog/test", 5*time.Second)

	text, err := fetcher.Run(context.Background(), server.URL+"/serverless")
	require.NoError(t, err)
	assert.Contains(t, text, "Serverless platforms let teams ship features")
	assert.LessOrEqual(t, len([]rune(text)), 1500)
	assert.NotContains(t, text, "\n")
}

func TestReferenceFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewReferenceFetcher(server.Client(), "AutoBlog/test", time.Second).Run(context.Background(), server.URL)
	assert.Error(t, err)
}
