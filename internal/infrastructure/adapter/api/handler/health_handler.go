package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness
type HealthHandler struct {
	storage string
	backend string
}

// NewHealthHandler creates a health handler describing the active wiring
func NewHealthHandler(storage, backend string) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		backend: backend,
	}
}

// Check handles the GET /health endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": h.storage,
		"backend": h.backend,
	})
}
