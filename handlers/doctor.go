package handlers

import (
	"net/http"

	"medisync/models"
	"medisync/services/doctor"
	"medisync/utils"

	"github.com/gin-gonic/gin"
)

// DoctorHandler serves the doctor onboarding and profile endpoints.
type DoctorHandler struct {
	Svc doctor.DoctorService
}

// NewDoctorHandler creates a new DoctorHandler instance.
func NewDoctorHandler(svc doctor.DoctorService) *DoctorHandler {
	return &DoctorHandler{Svc: svc}
}

func (h *DoctorHandler) SubmitPersonalDetails(c *gin.Context) {
	var details models.PersonalDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	doc, err := h.Svc.SubmitPersonalDetails(c.GetString("userID"), c.GetString("email"), details)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Personal details saved", "doctor": doc})
}

func (h *DoctorHandler) SubmitProfessionalDetails(c *gin.Context) {
	var details models.ProfessionalDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	doc, err := h.Svc.SubmitProfessionalDetails(c.GetString("userID"), details)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Professional details saved, pending verification", "doctor": doc})
}

func (h *DoctorHandler) VerificationStatus(c *gin.Context) {
	status, err := h.Svc.VerificationStatus(c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *DoctorHandler) SetupClinic(c *gin.Context) {
	clinic, err := h.Svc.SetupClinic(c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Clinic set up", "clinic": clinic})
}

// GetClinic is public: patients browse clinics by the doctor's account id.
func (h *DoctorHandler) GetClinic(c *gin.Context) {
	clinic, err := h.Svc.GetClinic(c.Param("doctorId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clinic)
}

func (h *DoctorHandler) GetProfile(c *gin.Context) {
	doc, err := h.Svc.GetProfile(c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Verify is the admin action that approves a doctor's credentials.
func (h *DoctorHandler) Verify(c *gin.Context) {
	if err := h.Svc.Verify(c.Param("doctorId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor verified"})
}
