package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/launchmentor/launchmentor-backend/internal/auth"
	"github.com/launchmentor/launchmentor-backend/internal/conversations/domain"
)

// stream pushes newly inserted message rows for one conversation over
// Server-Sent Events. Events are forwarded in arrival order; a subscriber
// that also appends locally may see its own rows again and dedupes on id.
func (h *Handler) stream(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation ID is required"})
		return
	}

	userID := auth.UserDBID(c)
	conv, err := h.service.Get(c.Request.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get conversation"})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()
	events, cancel := h.bus.Subscribe(ctx, conversationID)
	defer cancel()

	// Send initial conversation state
	initialData, _ := json.Marshal(gin.H{"conversation": conv})
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", string(initialData))
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case msg, open := <-events:
			if !open {
				return
			}
			eventData, _ := json.Marshal(gin.H{"message": msg})
			fmt.Fprintf(c.Writer, "event: message\ndata: %s\n\n", string(eventData))
			flusher.Flush()
		}
	}
}
