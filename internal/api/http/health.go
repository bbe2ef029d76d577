package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Postgres  string    `json:"postgres,omitempty"`
	Redis     string    `json:"redis,omitempty"`
}

// HealthHandler reports liveness plus the state of the two backing stores.
// The endpoint always answers 200 so orchestrators keep routing while a
// dependency flaps; the body says which side is down.
type HealthHandler struct {
	service string
	version string
	db      *pgxpool.Pool
	rdb     *redis.Client
}

func NewHealthHandler(service, version string, db *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{service: service, version: version, db: db, rdb: rdb}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.check)
	r.GET("/healthz", h.check)
}

func (h *HealthHandler) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Service:   h.service,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Postgres:  "disabled",
		Redis:     "disabled",
	}

	if h.db != nil {
		resp.Postgres = "up"
		if err := h.db.Ping(ctx); err != nil {
			resp.Postgres = "down"
			resp.Status = "degraded"
		}
	}
	if h.rdb != nil {
		resp.Redis = "up"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			resp.Redis = "down"
			resp.Status = "degraded"
		}
	}

	c.JSON(http.StatusOK, resp)
}
