package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts the current-user endpoint. The id comes from the auth
// middleware chain, so a missing row here means the upsert raced a delete.
func Register(rg gin.IRouter, repo *Repo, currentUserID func(*gin.Context) string) {
	rg.GET("/me", func(c *gin.Context) {
		u, err := repo.Get(c.Request.Context(), currentUserID(c))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
	})
}
