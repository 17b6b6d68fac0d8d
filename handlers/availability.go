package handlers

import (
	"net/http"

	"medisync/models"
	"medisync/services/availability"
	"medisync/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves the slot calendar endpoints.
type AvailabilityHandler struct {
	Svc availability.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler instance.
func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Svc.SetAvailability(c.GetString("userID"), req.Availability); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability saved"})
}

func (h *AvailabilityHandler) MarkBusy(c *gin.Context) {
	var req models.MarkBusyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	results, err := h.Svc.MarkSlotsBusy(c.GetString("userID"), req.Schedules)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetAvailability is public: patients read any doctor's open calendar.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	views, err := h.Svc.GetAvailability(c.Param("doctorId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": views})
}

// GetOwnAvailability lets the doctor read their own calendar without
// repeating their id.
func (h *AvailabilityHandler) GetOwnAvailability(c *gin.Context) {
	views, err := h.Svc.GetAvailability(c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": views})
}
