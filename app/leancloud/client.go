package leancloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Client talks to the LeanCloud storage REST API (version 1.1).
type Client struct {
	serverURL  string
	appID      string
	appKey     string
	httpClient *http.Client
}

type Query struct {
	Where map[string]any
	Order string // e.g. "-createdAt"
	Limit int
	// CountOnly asks for the match count without any objects.
	CountOnly bool
}

type Result struct {
	Results []json.RawMessage
	Count   int
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Code       int64
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leancloud: status %d, code %d: %s", e.StatusCode, e.Code, e.Message)
}

func NewClient(serverURL, appID, appKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		serverURL:  serverURL,
		appID:      appID,
		appKey:     appKey,
		httpClient: httpClient,
	}
}

// Create stores record in class and returns the new objectId.
func (c *Client) Create(ctx context.Context, class string, record any) (string, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, c.classURL(class), bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	objectID := gjson.GetBytes(data, "objectId").String()
	if objectID == "" {
		return "", fmt.Errorf("leancloud: create response has no objectId")
	}
	return objectID, nil
}

// Query lists objects of class matching q, with the total match count.
func (c *Client) Query(ctx context.Context, class string, q Query) (Result, error) {
	params := url.Values{}
	if len(q.Where) > 0 {
		where, err := json.Marshal(q.Where)
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode where clause: %w", err)
		}
		params.Set("where", string(where))
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	switch {
	case q.CountOnly:
		params.Set("limit", "0")
	case q.Limit > 0:
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	params.Set("count", "1")

	data, err := c.do(ctx, http.MethodGet, c.classURL(class)+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, err
	}

	if !gjson.ValidBytes(data) {
		return Result{}, fmt.Errorf("leancloud: malformed query response")
	}

	parsed := gjson.ParseBytes(data)
	results := parsed.Get("results").Array()
	result := Result{
		Results: make([]json.RawMessage, 0, len(results)),
		Count:   int(parsed.Get("count").Int()),
	}
	for _, r := range results {
		result.Results = append(result.Results, json.RawMessage(r.Raw))
	}
	return result, nil
}

func (c *Client) classURL(class string) string {
	return fmt.Sprintf("%s/1.1/classes/%s", c.serverURL, url.PathEscape(class))
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-LC-Id", c.appID)
	req.Header.Set("X-LC-Key", c.appKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leancloud request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       gjson.GetBytes(data, "code").Int(),
			Message:    gjson.GetBytes(data, "error").String(),
		}
	}

	return data, nil
}
