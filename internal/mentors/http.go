package mentors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts the mentor listing endpoint.
func Register(rg *gin.RouterGroup) {
	rg.GET("", list)
}

func list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "mentors": All()})
}
