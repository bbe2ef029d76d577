package projects

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/launchmentor/launchmentor-backend/internal/auth"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/active", h.getActive)
}

type createReq struct {
	Idea            string `json:"idea"`
	Stage           string `json:"stage"`
	Industry        string `json:"industry"`
	TargetCustomer  string `json:"target_customer"`
	TeamSize        string `json:"team_size"`
	TechKnowledge   string `json:"tech_knowledge"`
	TractionMetrics string `json:"traction_metrics"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Idea) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Stage == "" {
		req.Stage = StageIdea
	}

	userID := auth.UserDBID(c)
	p, err := h.repo.Create(c.Request.Context(), userID, CreateProject{
		Idea:            strings.TrimSpace(req.Idea),
		Stage:           req.Stage,
		Industry:        req.Industry,
		TargetCustomer:  req.TargetCustomer,
		TeamSize:        req.TeamSize,
		TechKnowledge:   req.TechKnowledge,
		TractionMetrics: req.TractionMetrics,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserDBID(c)
	items, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

// getActive returns the latest project; with none the client is expected to
// route the user into onboarding.
func (h *Handler) getActive(c *gin.Context) {
	userID := auth.UserDBID(c)
	p, err := h.repo.GetActive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no project", "onboarding_required": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}
