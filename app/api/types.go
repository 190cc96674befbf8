package api

import (
	"github.com/lysyi3m/autoblog/app/content"
	"github.com/lysyi3m/autoblog/app/tasks"
)

const (
	ActionStart    = "start"
	ActionStop     = "stop"
	ActionRestart  = "restart"
	ActionGenerate = "generate"
)

type SchedulerRequest struct {
	Action          string `json:"action" binding:"required,oneof=start stop restart generate"`
	IntervalMinutes *int   `json:"intervalMinutes"`
}

type GenerateRequest struct {
	CustomTopic *content.Topic `json:"customTopic"`
}

// Settings is the static part of GET /scheduler.
type Settings struct {
	MinIntervalMinutes     int    `json:"minIntervalMinutes"`
	MaxIntervalMinutes     int    `json:"maxIntervalMinutes"`
	DefaultIntervalMinutes int    `json:"defaultIntervalMinutes"`
	Model                  string `json:"model"`
	Store                  string `json:"store"`
	Language               string `json:"language"`
}

type PostSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	ReadTime int    `json:"readTime"`
	Excerpt  string `json:"excerpt"`
}

func summaryFromResult(result tasks.CycleResult) PostSummary {
	return PostSummary{
		ID:       result.PostID,
		Title:    result.Title,
		Category: result.Category,
		ReadTime: result.ReadTime,
		Excerpt:  result.Excerpt,
	}
}
