package handlers

import (
	"net/http"

	"medisync/models"
	"medisync/services/booking"
	"medisync/services/lifecycle"
	"medisync/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler serves booking and lifecycle endpoints.
type AppointmentHandler struct {
	Booking   booking.BookingService
	Lifecycle lifecycle.LifecycleService
}

// NewAppointmentHandler creates a new AppointmentHandler instance.
func NewAppointmentHandler(b booking.BookingService, l lifecycle.LifecycleService) *AppointmentHandler {
	return &AppointmentHandler{Booking: b, Lifecycle: l}
}

func callerRef(c *gin.Context) booking.PatientRef {
	return booking.PatientRef{
		UserID: c.GetString("userID"),
		Name:   c.GetString("name"),
		Email:  c.GetString("email"),
	}
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req models.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Booking.BookAppointment(c.Request.Context(), req.DoctorID, callerRef(c), req.Date, req.Time, "", false)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked", "appointment": appt})
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.Lifecycle.Get(c.Param("appointmentId"), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	if err := h.Lifecycle.Cancel(c.Param("appointmentId"), c.GetString("userID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	link, err := h.Lifecycle.Reschedule(req.AppointmentID, c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment rescheduled, patient notified", "rebookingLink": link})
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	views, err := h.Lifecycle.Upcoming(c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

func (h *AppointmentHandler) History(c *gin.Context) {
	previous, err := h.Lifecycle.History(c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": previous})
}

func (h *AppointmentHandler) SaveReview(c *gin.Context) {
	var req models.SaveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Lifecycle.SaveReview(c.GetString("userID"), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review saved"})
}

// SweepSchedule trims the doctor's elapsed appointments on demand; the
// periodic worker does the same thing in the background.
func (h *AppointmentHandler) SweepSchedule(c *gin.Context) {
	if err := h.Lifecycle.SweepDoctor(c.GetString("userID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule swept"})
}
