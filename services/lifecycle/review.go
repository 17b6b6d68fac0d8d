package lifecycle

import (
	"fmt"

	"medisync/models"
	"medisync/utils"

	"go.uber.org/zap"
)

func (s *DefaultLifecycleService) SaveReview(patientUserID string, req models.SaveReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return utils.NewValidation("rating must be between 1 and 5")
	}

	appt, err := s.Appointments.GetByID(req.AppointmentID)
	if err != nil {
		return fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt == nil {
		return utils.NewNotFound("Appointment not found")
	}
	if appt.PatientID != patientUserID {
		return utils.NewPermissionDenied("You can only review your own appointments")
	}

	// The guarded update is the idempotency gate: it matches only while the
	// appointment is not yet completed, so the aggregate below runs at most
	// once per appointment.
	matched, err := s.Appointments.SaveReview(req.AppointmentID, req.Rating, req.Review, req.Anonymous)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	if !matched {
		return utils.NewValidation("Appointment has already been reviewed")
	}

	doc, err := s.Doctors.GetByUserID(appt.DoctorID)
	if err != nil {
		return fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc != nil {
		if err := s.Doctors.ApplyReview(doc.ID, req.Rating, req.AppointmentID); err != nil {
			return fmt.Errorf("failed to apply review to doctor: %w", err)
		}
		if req.PrivateReview != "" {
			// Private feedback carries no author; it reaches the doctor
			// anonymized regardless of the public anonymity flag.
			if err := s.Doctors.AppendPrivateReview(doc.ID, models.PrivateReview{
				Review:    req.PrivateReview,
				CreatedAt: s.now(),
			}); err != nil {
				utils.GetLogger().Warn("failed to store private review",
					zap.String("appointmentId", req.AppointmentID), zap.Error(err))
			}
		}
	}

	pat, err := s.Patients.GetByUserID(patientUserID)
	if err != nil {
		return fmt.Errorf("failed to fetch patient: %w", err)
	}
	if pat != nil {
		// The sweep may already have migrated the entry to previous as
		// missed; reviewing upgrades that entry in place rather than
		// stacking a second one.
		entry := findEntry(pat.Appointments.Upcoming, req.AppointmentID)
		if entry == nil {
			entry = findEntry(pat.Appointments.Previous, req.AppointmentID)
		}
		if entry == nil {
			entry = &models.PatientAppointment{
				AppointmentID: appt.AppointmentID,
				DoctorID:      appt.DoctorID,
				Date:          appt.Date,
				Time:          appt.Time,
			}
		}
		moved := *entry
		moved.Status = models.AppointmentCompleted
		moved.Rating = req.Rating
		moved.Feedback = req.Review
		if err := s.Patients.MoveToPrevious(pat.ID, req.AppointmentID, moved); err != nil {
			return fmt.Errorf("failed to migrate reviewed appointment: %w", err)
		}
	}

	utils.GetLogger().Info("review saved",
		zap.String("appointmentId", req.AppointmentID),
		zap.Int("rating", req.Rating),
	)
	return nil
}

func findEntry(entries []models.PatientAppointment, appointmentID string) *models.PatientAppointment {
	for i := range entries {
		if entries[i].AppointmentID == appointmentID {
			return &entries[i]
		}
	}
	return nil
}
