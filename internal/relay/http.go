package relay

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/launchmentor/launchmentor-backend/internal/auth"
)

// Handler exposes the relay over HTTP, implementing the mentor-chat contract:
// 200 {response}, 400/402/429/500 {error}. OPTIONS pre-flight is answered by
// the router's CORS middleware.
type Handler struct {
	service *Service

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/mentor-chat", h.mentorChat)
}

// limiterFor hands out one token-bucket limiter per user. The relay itself
// never retries; this only shields the gateway from hot loops on our side.
func (h *Handler) limiterFor(userID string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(1), 5)
		h.limiters[userID] = l
	}
	return l
}

func (h *Handler) mentorChat(c *gin.Context) {
	userID := auth.UserDBID(c)
	if !h.limiterFor(userID).Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": ErrRateLimited.Error()})
		return
	}

	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid body"})
		return
	}

	reply, err := h.service.HandleTurn(c.Request.Context(), req)
	if err != nil {
		status, msg := classify(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// classify maps relay errors onto the wire contract without leaking
// upstream detail.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingFields):
		return http.StatusBadRequest, ErrMissingFields.Error()
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, ErrRateLimited.Error()
	case errors.Is(err, ErrQuotaExhausted):
		return http.StatusPaymentRequired, ErrQuotaExhausted.Error()
	case errors.Is(err, ErrAPIKeyMissing):
		return http.StatusInternalServerError, ErrAPIKeyMissing.Error()
	default:
		return http.StatusInternalServerError, ErrUpstream.Error()
	}
}
