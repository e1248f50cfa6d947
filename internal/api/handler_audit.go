package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-audit-backend/internal/report"
)

// GetIntegrity handles GET /api/integrity, returning the issue list and
// counts from the most recent audit cycle.
func (h *Handler) GetIntegrity(c *gin.Context) {
	result, ok := h.results.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no audit cycle has completed yet"})
		return
	}
	c.JSON(http.StatusOK, result.Integrity)
}

// GetUtilization handles GET /api/utilization, returning per-room metrics,
// the under-threshold list and the peak window from the most recent cycle.
func (h *Handler) GetUtilization(c *gin.Context) {
	result, ok := h.results.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no audit cycle has completed yet"})
		return
	}
	c.JSON(http.StatusOK, result.Utilization)
}

// GetReport handles GET /api/report, rendering the markdown operations
// report for the most recent cycle.
func (h *Handler) GetReport(c *gin.Context) {
	result, ok := h.results.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no audit cycle has completed yet"})
		return
	}

	var buf bytes.Buffer
	if err := report.WriteOpsReport(&buf, result.Integrity, result.Utilization); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
}
