// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"antiseche/api/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandlers struct {
	Aggregator *analytics.Aggregator
	Refresher  *analytics.Refresher
}

func NewAnalyticsHandlers(agg *analytics.Aggregator, ref *analytics.Refresher) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		Aggregator: agg,
		Refresher:  ref,
	}
}

// parseDateParam turns an optional RFC3339 query parameter into epoch
// milliseconds. A missing parameter is nil (no bound), a malformed one is an
// error surfaced to the caller.
func parseDateParam(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid '" + name + "' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
		return nil, false
	}
	ms := t.UnixMilli()
	return &ms, true
}

// GetAllUserSessions serves the reconstructed sessions of every learner,
// optionally scoped by group, course and a date window.
func (h *AnalyticsHandlers) GetAllUserSessions(c *gin.Context) {
	group := c.Query("group")
	course := c.Query("course")
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	results, err := h.Aggregator.GetAllUserSessions(ctx, group, course, from, to)
	if err != nil {
		log.Printf("Error getting user sessions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user sessions"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetOneUserSession serves one learner's reconstructed sessions.
func (h *AnalyticsHandlers) GetOneUserSession(c *gin.Context) {
	uid := c.Param("uid")
	course := c.Query("course")
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.Aggregator.GetOneUserSession(ctx, uid, course, from, to)
	if err != nil {
		log.Printf("Error getting sessions for user %s: %v", uid, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to retrieve sessions for this user"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAllUserModules serves one page of per-module breakdowns. The page cursor
// comes back as nextId; pass it as 'page' to get the next page.
func (h *AnalyticsHandlers) GetAllUserModules(c *gin.Context) {
	group := c.Query("group")
	course := c.Query("course")
	pageCursor := c.Query("page")
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	pageSize := 50
	if raw := c.Query("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'pageSize' parameter. Must be a positive integer."})
			return
		}
		pageSize = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.Aggregator.GetAllUserModules(ctx, group, course, from, to, pageCursor, pageSize)
	if err != nil {
		log.Printf("Error getting user modules: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user modules"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOneUserModule serves one learner's per-module breakdown.
func (h *AnalyticsHandlers) GetOneUserModule(c *gin.Context) {
	uid := c.Param("uid")
	course := c.Query("course")
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.Aggregator.GetOneUserModule(ctx, uid, course, from, to)
	if err != nil {
		log.Printf("Error getting modules for user %s: %v", uid, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to retrieve modules for this user"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserCohorts serves the active/inactive x sponsorised/unsponsorised split.
func (h *AnalyticsHandlers) GetUserCohorts(c *gin.Context) {
	group := c.Query("group")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.Aggregator.GetUserCohorts(ctx, group)
	if err != nil {
		log.Printf("Error getting user cohorts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user cohorts"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateUserAnalytics recomputes the denormalized per-user counters from the
// raw event log and writes them back onto the learner documents.
func (h *AnalyticsHandlers) UpdateUserAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	updated, err := h.Refresher.RefreshAll(ctx)
	if err != nil {
		log.Printf("Error refreshing user analytics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh user analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
