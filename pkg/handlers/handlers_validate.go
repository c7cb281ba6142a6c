package handlers

import (
	"net/http"

	"github.com/arnavshah/roster-optimizer/pkg/models"
	"github.com/arnavshah/roster-optimizer/pkg/optimizer"
	"github.com/gin-gonic/gin"
)

// ValidateRun checks a run request without touching the roster
func (h *Handler) ValidateRun(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if err := optimizer.ValidateRunRequest(req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	var visits int
	var hours float64
	for _, cl := range req.Clients {
		visits += cl.VisitsPerWeek
		hours += cl.HoursPerWeek
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"caregiver_count": len(req.Caregivers),
			"client_count":    len(req.Clients),
			"visit_count":     visits,
			"requested_hours": hours,
		},
	})
}
