// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"antiseche/api/models"
	"antiseche/api/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TrackHandlers struct {
	AnalyticsStore *store.AnalyticsStore
}

func NewTrackHandlers(s *store.AnalyticsStore) *TrackHandlers {
	return &TrackHandlers{
		AnalyticsStore: s,
	}
}

// TrackNav ingests a batch of navigation events for one learner session.
func (h *TrackHandlers) TrackNav(c *gin.Context) {
	var req models.TrackNavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming nav tracking JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Events) == 0 {
		c.Status(http.StatusOK)
		return
	}

	now := time.Now().UTC()
	ip := c.ClientIP()
	rows := make([]store.NavEventRow, 0, len(req.Events))
	for eventKey, ev := range req.Events {
		rows = append(rows, store.NavEventRow{
			EventID:    uuid.New().String(),
			UID:        req.UID,
			SessionKey: req.SessionKey,
			EventKey:   eventKey,
			StartDate:  ev.StartDate,
			StateName:  ev.StateName,
			Module:     ev.Params.Module,
			LessonID:   ev.Params.LessonID,
			SectionID:  ev.Params.SectionID,
			IPAddress:  ip,
			ReceivedAt: now,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.AnalyticsStore.InsertNavEvents(ctx, rows); err != nil {
		log.Printf("Error inserting nav events into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record nav events"})
		return
	}

	c.Status(http.StatusOK)
}

// TrackAction records one typed user action. A request without an action type
// is accepted and ignored, matching how gappy instrumentation is treated
// everywhere else.
func (h *TrackHandlers) TrackAction(c *gin.Context) {
	var req models.TrackActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming action tracking JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Action == "" {
		c.Status(http.StatusOK)
		return
	}

	action := models.ActionEvent{
		Action:       req.Action,
		CreationDate: time.Now().UnixMilli(),
		Module:       req.Module,
		LessonID:     req.LessonID,
		SectionID:    req.SectionID,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.AnalyticsStore.InsertAction(ctx, req.UID, action); err != nil {
		log.Printf("Error inserting action into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record action"})
		return
	}

	c.Status(http.StatusOK)
}
