// Package lifecycle drives appointments through their post-booking states:
// cancellation, rescheduling, the elapsed-time sweeps, reviews, and the
// patient-facing upcoming/history reads.
package lifecycle

import (
	"fmt"
	"time"

	"medisync/config"
	appointmentRepo "medisync/database/repository/appointment"
	doctorRepo "medisync/database/repository/doctor"
	patientRepo "medisync/database/repository/patient"
	"medisync/models"
	"medisync/services/availability"
	"medisync/services/notification"
	"medisync/services/tasks"
	"medisync/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// LifecycleService manages everything that happens to an appointment after
// it is booked.
type LifecycleService interface {
	// Get returns the canonical record; callers must be a party to it.
	Get(appointmentID, callerUserID string) (*models.Appointment, error)
	// Cancel removes the appointment everywhere and returns its slot to
	// available. Only the booking patient or the appointment's doctor may
	// cancel.
	Cancel(appointmentID, callerUserID string) error
	// Reschedule is the doctor-initiated variant of Cancel: same teardown,
	// plus a rebooking email to the patient. Returns the rebooking link.
	Reschedule(appointmentID, callerUserID string) (string, error)

	// SweepDoctor drops elapsed entries from a doctor's active list.
	SweepDoctor(doctorUserID string) error
	// SweepPatient migrates elapsed upcoming entries to previous as missed.
	SweepPatient(patientUserID string) error
	// SweepAll runs both sweeps across every document; the periodic worker
	// task calls it.
	SweepAll() error

	// Upcoming returns the patient's upcoming list annotated for display.
	Upcoming(patientUserID string) ([]models.UpcomingView, error)
	// History sweeps first, then returns the previous bucket.
	History(patientUserID string) ([]models.PatientAppointment, error)

	// SaveReview completes an appointment with the patient's rating. A
	// repeat submission for the same appointment is rejected without
	// touching the doctor's aggregate a second time.
	SaveReview(patientUserID string, req models.SaveReviewRequest) error
}

// DefaultLifecycleService is the production implementation. Queue is
// optional; without it rebooking emails are sent inline. Clock is
// overridable so tests can pin time.
type DefaultLifecycleService struct {
	Doctors      doctorRepo.DoctorRepository
	Patients     patientRepo.PatientRepository
	Appointments appointmentRepo.AppointmentRepository
	Cache        *redis.Client
	Queue        *asynq.Client
	Mailer       notification.Mailer
	Clock        func() time.Time
}

func (s *DefaultLifecycleService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultLifecycleService) Get(appointmentID, callerUserID string) (*models.Appointment, error) {
	return s.loadOwned(appointmentID, callerUserID)
}

func (s *DefaultLifecycleService) Cancel(appointmentID, callerUserID string) error {
	appt, err := s.loadOwned(appointmentID, callerUserID)
	if err != nil {
		return err
	}
	return s.teardown(appt)
}

func (s *DefaultLifecycleService) Reschedule(appointmentID, callerUserID string) (string, error) {
	appt, err := s.loadOwned(appointmentID, callerUserID)
	if err != nil {
		return "", err
	}
	if callerUserID != appt.DoctorID {
		return "", utils.NewPermissionDenied("Only the doctor can reschedule an appointment")
	}
	if err := s.teardown(appt); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/doctors/%s/book", config.AppConfig.FrontendBaseURL, appt.DoctorID)
	s.dispatchRebookingEmail(appt, link)
	return link, nil
}

// loadOwned fetches the appointment and checks the caller is one of its two
// parties.
func (s *DefaultLifecycleService) loadOwned(appointmentID, callerUserID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt == nil {
		return nil, utils.NewNotFound("Appointment not found")
	}
	if callerUserID != appt.PatientID && callerUserID != appt.DoctorID {
		return nil, utils.NewPermissionDenied("You are not a party to this appointment")
	}
	return appt, nil
}

// teardown removes the appointment from all three documents and releases the
// slot. Order matters: the canonical record goes first so a retry after a
// partial failure finds nothing to cancel instead of double-releasing.
func (s *DefaultLifecycleService) teardown(appt *models.Appointment) error {
	if err := s.Appointments.Delete(appt.AppointmentID); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	doc, err := s.Doctors.GetByUserID(appt.DoctorID)
	if err != nil {
		return fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc != nil {
		if err := s.Doctors.PullAppointment(doc.ID, appt.AppointmentID); err != nil {
			return fmt.Errorf("failed to remove doctor entry: %w", err)
		}
		released, err := s.Doctors.ReleaseSlot(doc.ID, appt.Date, appt.Time)
		if err != nil {
			return fmt.Errorf("failed to release slot: %w", err)
		}
		if !released {
			// The doctor may have republished the date in the meantime;
			// nothing to put back.
			utils.GetLogger().Info("cancelled appointment had no booked slot to release",
				zap.String("appointmentId", appt.AppointmentID))
		}
	}

	pat, err := s.Patients.GetByUserID(appt.PatientID)
	if err != nil {
		return fmt.Errorf("failed to fetch patient: %w", err)
	}
	if pat != nil {
		if err := s.Patients.PullUpcoming(pat.ID, appt.AppointmentID); err != nil {
			return fmt.Errorf("failed to remove patient entry: %w", err)
		}
	}

	availability.InvalidateCache(s.Cache, appt.DoctorID)
	utils.GetLogger().Info("appointment torn down",
		zap.String("appointmentId", appt.AppointmentID),
		zap.String("doctorId", appt.DoctorID),
	)
	return nil
}

// dispatchRebookingEmail enqueues the notice, falling back to inline send
// when no queue is wired. Email failure never fails the reschedule.
func (s *DefaultLifecycleService) dispatchRebookingEmail(appt *models.Appointment, link string) {
	payload := tasks.RebookingEmailPayload{
		To:          appt.PatientEmail,
		PatientName: appt.PatientName,
		DoctorName:  appt.DoctorName,
		Link:        link,
	}

	if s.Queue != nil {
		task, err := tasks.NewRebookingEmailTask(payload)
		if err == nil {
			if _, err = s.Queue.Enqueue(task); err == nil {
				return
			}
		}
		utils.GetLogger().Warn("failed to enqueue rebooking email, sending inline", zap.Error(err))
	}
	if s.Mailer == nil {
		return
	}
	if err := s.Mailer.SendRebookingEmail(payload.To, payload.PatientName, payload.DoctorName, payload.Link); err != nil {
		utils.GetLogger().Warn("rebooking email failed", zap.Error(err))
	}
}
