package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/launchmentor/launchmentor-backend/internal/auth"
	"github.com/launchmentor/launchmentor-backend/internal/conversations/domain"
	"github.com/launchmentor/launchmentor-backend/internal/conversations/service"
	"github.com/launchmentor/launchmentor-backend/internal/realtime"
	"github.com/launchmentor/launchmentor-backend/internal/relay"
)

type Handler struct {
	service *service.Service
	bus     *realtime.Bus
}

func Register(rg *gin.RouterGroup, svc *service.Service, bus *realtime.Bus) {
	h := &Handler{service: svc, bus: bus}

	rg.POST("", h.ensure)
	rg.GET("/:id/messages", h.history)
	rg.POST("/:id/messages", h.send)
	rg.GET("/:id/stream", h.stream)
}

type ensureReq struct {
	ProjectID string `json:"project_id"`
	MentorID  string `json:"mentor_id"`
}

func (h *Handler) ensure(c *gin.Context) {
	var req ensureReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.MentorID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserDBID(c)
	conv, err := h.service.Ensure(c.Request.Context(), userID, req.ProjectID, req.MentorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "conversation": conv})
}

func (h *Handler) history(c *gin.Context) {
	conversationID := strings.TrimSpace(c.Param("id"))
	userID := auth.UserDBID(c)

	items, err := h.service.History(c.Request.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": items})
}

type sendReq struct {
	Message string `json:"message"`
}

func (h *Handler) send(c *gin.Context) {
	conversationID := strings.TrimSpace(c.Param("id"))
	userID := auth.UserDBID(c)

	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.service.Send(c.Request.Context(), userID, conversationID, strings.TrimSpace(req.Message))
	if err != nil {
		status, msg := sendStatus(err)
		c.JSON(status, gin.H{"ok": false, "error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":                true,
		"user_message":      res.UserMessage,
		"assistant_message": res.AssistantMessage,
	})
}

// sendStatus maps turn failures, keeping the relay's rate-limit and quota
// statuses distinct so clients can react to them.
func sendStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "conversation not found"
	case errors.Is(err, domain.ErrSendInFlight):
		return http.StatusConflict, domain.ErrSendInFlight.Error()
	case errors.Is(err, relay.ErrRateLimited):
		return http.StatusTooManyRequests, relay.ErrRateLimited.Error()
	case errors.Is(err, relay.ErrQuotaExhausted):
		return http.StatusPaymentRequired, relay.ErrQuotaExhausted.Error()
	case errors.Is(err, relay.ErrMissingFields):
		return http.StatusBadRequest, relay.ErrMissingFields.Error()
	default:
		return http.StatusInternalServerError, "failed to send message"
	}
}
