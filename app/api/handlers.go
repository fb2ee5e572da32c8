package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Donny208/Hardware-Scrape/app/database"
	"github.com/Donny208/Hardware-Scrape/app/feed"
)

func NewHandler(configCache *feed.ConfigCache, userRepo database.UserRepository,
	postRepo database.PostRepository, stats StatsProvider, version string) *Handler {
	return &Handler{
		configCache: configCache,
		userRepo:    userRepo,
		postRepo:    postRepo,
		stats:       stats,
		version:     version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.userRepo.GetUserCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_user_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	posts, err := h.postRepo.GetPostCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_post_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sources":         h.configCache.GetSourceCount(),
		"enabled_sources": len(h.configCache.GetEnabledSources()),
		"keywords":        len(h.configCache.GetKeywords()),
		"users":           users,
		"posts":           posts,
		"poll":            h.stats.Snapshot(),
	})
}
