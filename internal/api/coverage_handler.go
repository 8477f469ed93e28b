package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"profast-backend-go/internal/core"
)

// CoverageHandler serves the region and warehouse lookup data.
type CoverageHandler struct {
	coverage core.CoverageService
}

// NewCoverageHandler creates a new CoverageHandler.
func NewCoverageHandler(cs core.CoverageService) *CoverageHandler {
	return &CoverageHandler{coverage: cs}
}

// Divisions handles GET /data/division.json.
func (h *CoverageHandler) Divisions(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.coverage.DivisionsJSON())
}

// Warehouses handles GET /data/warehouses.json.
func (h *CoverageHandler) Warehouses(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.coverage.WarehousesJSON())
}

// Search handles GET /coverage?search=.
func (h *CoverageHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.coverage.Search(c.Query("search")))
}
