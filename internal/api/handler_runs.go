package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultRunsLimit = 20

// GetRuns handles GET /api/runs, listing recent audit run summaries for
// trend tracking.
func (h *Handler) GetRuns(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
			return
		}
		limit = n
	}

	runs, err := h.store.ListAuditRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}
