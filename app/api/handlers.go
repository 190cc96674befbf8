package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/autoblog/app/content"
	"github.com/lysyi3m/autoblog/app/database"
	"github.com/lysyi3m/autoblog/app/tasks"
)

const feedPostLimit = 20

type Handler struct {
	scheduler  tasks.SchedulerInterface
	catalog    *content.Catalog
	postRepo   database.PostRepository
	feedWriter *content.FeedWriter
	feedInfo   content.FeedInfo
	settings   Settings
}

func NewHandler(scheduler tasks.SchedulerInterface, catalog *content.Catalog, postRepo database.PostRepository,
	feedInfo content.FeedInfo, settings Settings) *Handler {
	return &Handler{
		scheduler:  scheduler,
		catalog:    catalog,
		postRepo:   postRepo,
		feedWriter: content.NewFeedWriter(),
		feedInfo:   feedInfo,
		settings:   settings,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"scheduler": h.scheduler.Status().IsRunning,
		"topics":    h.catalog.Size(),
	}

	if postCount, err := h.postRepo.GetPostCount(c.Request.Context()); err == nil {
		health["posts"] = postCount
	} else {
		slog.Warn("Failed to count posts", "error", err)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetScheduler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"scheduler": h.scheduler.Status(),
		"settings":  h.settings,
		"controls": gin.H{
			"start":    "POST /scheduler {\"action\":\"start\",\"intervalMinutes\":60}",
			"stop":     "POST /scheduler {\"action\":\"stop\"}",
			"restart":  "POST /scheduler {\"action\":\"restart\",\"intervalMinutes\":60}",
			"generate": "POST /scheduler {\"action\":\"generate\"}",
		},
	})
}

func (h *Handler) PostScheduler(c *gin.Context) {
	var req SchedulerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	switch req.Action {
	case ActionStart:
		started, err := h.scheduler.Start(h.intervalOr(req.IntervalMinutes, h.settings.DefaultIntervalMinutes))
		if err != nil {
			h.schedulerError(c, req.Action, err)
			return
		}
		message := "Scheduler started"
		if !started {
			message = "Scheduler is already running"
		}
		h.schedulerOK(c, message)

	case ActionStop:
		message := "Scheduler stopped"
		if !h.scheduler.Stop() {
			message = "Scheduler is not running"
		}
		h.schedulerOK(c, message)

	case ActionRestart:
		current := h.scheduler.Status().IntervalMinutes
		if err := h.scheduler.Restart(h.intervalOr(req.IntervalMinutes, current)); err != nil {
			h.schedulerError(c, req.Action, err)
			return
		}
		h.schedulerOK(c, "Scheduler restarted")

	case ActionGenerate:
		result := h.scheduler.RunOnce(context.WithoutCancel(c.Request.Context()), nil)
		if !result.Success {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   result.Error,
				"status":  h.scheduler.Status(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Post generated",
			"status":  h.scheduler.Status(),
			"post":    summaryFromResult(result),
		})
	}
}

func (h *Handler) PostGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	// The cycle outlives a disconnected client so a started post is still persisted.
	result := h.scheduler.RunOnce(context.WithoutCancel(c.Request.Context()), req.CustomTopic)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"post":    summaryFromResult(result),
	})
}

func (h *Handler) ListPosts(c *gin.Context) {
	query := database.PostQuery{
		Category: c.Query("category"),
		Source:   c.Query("source"),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		query.Limit = limit
	}

	posts, total, err := h.postRepo.GetRecentPosts(c.Request.Context(), query)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	results := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		results = append(results, postView(post))
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   total,
	})
}

func (h *Handler) ListTopics(c *gin.Context) {
	topics := h.catalog.Topics()

	c.JSON(http.StatusOK, gin.H{
		"topics": topics,
		"total":  len(topics),
	})
}

func (h *Handler) GetPostsFeed(c *gin.Context) {
	posts, _, err := h.postRepo.GetRecentPosts(c.Request.Context(), database.PostQuery{Limit: feedPostLimit})
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_posts", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.feedWriter.Run(h.feedInfo, posts)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(posts)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) intervalOr(requested *int, fallback int) int {
	if requested != nil {
		return *requested
	}
	return fallback
}

func (h *Handler) schedulerOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"status":  h.scheduler.Status(),
	})
}

func (h *Handler) schedulerError(c *gin.Context, action string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, tasks.ErrInvalidInterval):
		code = http.StatusBadRequest
	case errors.Is(err, tasks.ErrSchedulerClosed):
		code = http.StatusServiceUnavailable
	default:
		slog.Error("Scheduler action failed", "action", action, "error", err)
	}

	c.JSON(code, gin.H{
		"success": false,
		"error":   err.Error(),
		"status":  h.scheduler.Status(),
	})
}

func postView(post database.Post) gin.H {
	return gin.H{
		"id":          post.ID,
		"title":       post.Title,
		"content":     post.Content,
		"contentHtml": post.ContentHTML,
		"excerpt":     post.Excerpt,
		"category":    post.Category,
		"tags":        post.Tags,
		"author":      post.Author,
		"status":      post.Status,
		"readTime":    post.ReadTime,
		"source":      post.Source,
		"model":       post.Model,
		"generatedAt": post.GeneratedAt.Format(time.RFC3339),
		"createdAt":   post.CreatedAt.Format(time.RFC3339),
	}
}
