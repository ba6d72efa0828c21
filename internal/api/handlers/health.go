package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/moviepicks/internal/catalog"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	catalog *catalog.Catalog
}

func NewHealthHandler(cat *catalog.Catalog) *HealthHandler {
	return &HealthHandler{catalog: cat}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"catalog": gin.H{
			"genres": h.catalog.Len(),
		},
	})
}
