package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /health
// Static liveness payload for orchestration health checks. No side effects.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
