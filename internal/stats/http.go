package stats

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}
	rg.GET("/usage", h.usage)
}

func (h *Handler) usage(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	items, err := h.repo.Recent(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "usage": items})
}
