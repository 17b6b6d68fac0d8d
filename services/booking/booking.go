package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "medisync/database/repository/appointment"
	doctorRepo "medisync/database/repository/doctor"
	patientRepo "medisync/database/repository/patient"
	"medisync/models"
	"medisync/services/availability"
	"medisync/timeutil"
	"medisync/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PatientRef identifies the booking patient from the authenticated session.
type PatientRef struct {
	UserID string
	Name   string
	Email  string
}

// BookingService books slots. All slot-state races resolve inside the
// repository's conditional update; this layer validates, resolves display
// names, and lazily provisions the patient document.
type BookingService interface {
	// BookAppointment books the given slot for the patient. appointmentID
	// may be pre-generated (the paid flow stamps it on the payment intent
	// before the charge); pass "" to have one generated. paid selects the
	// confirmed status and the "done" payment mark.
	BookAppointment(ctx context.Context, doctorUserID string, patient PatientRef, date, slotTime, appointmentID string, paid bool) (*models.Appointment, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Doctors      doctorRepo.DoctorRepository
	Patients     patientRepo.PatientRepository
	Appointments appointmentRepo.AppointmentRepository
	Cache        *redis.Client
}

func (s *DefaultBookingService) BookAppointment(ctx context.Context, doctorUserID string, patient PatientRef, date, slotTime, appointmentID string, paid bool) (*models.Appointment, error) {
	if !timeutil.ValidDate(date) {
		return nil, utils.NewValidation("invalid date %q, expected YYYY-MM-DD", date)
	}
	if _, _, err := timeutil.ParseSlotLabel(slotTime); err != nil {
		return nil, utils.NewValidation("invalid slot %q", slotTime)
	}

	doc, err := s.Doctors.GetByUserID(doctorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return nil, utils.NewNotFound("Doctor not found")
	}

	// Friendly precheck on the snapshot. The transaction's conditional
	// update is the authoritative guard.
	if !slotOpen(doc, date, slotTime) {
		return nil, utils.NewSlotUnavailable("Slot is either not available or already taken")
	}

	pat, err := s.ensurePatient(patient.UserID)
	if err != nil {
		return nil, err
	}

	if appointmentID == "" {
		appointmentID = uuid.New().String()
	}
	status := models.AppointmentUpcoming
	paymentStatus := ""
	if paid {
		status = models.AppointmentConfirmed
		paymentStatus = "done"
	}

	appt := &models.Appointment{
		AppointmentID: appointmentID,
		Date:          date,
		Time:          slotTime,
		PatientID:     patient.UserID,
		PatientName:   displayName(patient.Name, patient.Email),
		PatientEmail:  patient.Email,
		DoctorID:      doc.UserID,
		DoctorName:    doctorDisplayName(doc),
		Status:        status,
		CreatedAt:     time.Now(),
	}

	err = s.Appointments.BookAppointment(ctx, appointmentRepo.BookingParams{
		Appointment:   appt,
		DoctorDocID:   doc.ID,
		PatientDocID:  pat.ID,
		PaymentStatus: paymentStatus,
		PatientStatus: status,
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, utils.NewSlotUnavailable("Slot is either not available or already taken")
		}
		return nil, fmt.Errorf("booking failed: %w", err)
	}

	availability.InvalidateCache(s.Cache, doctorUserID)
	utils.GetLogger().Info("appointment booked",
		zap.String("appointmentId", appt.AppointmentID),
		zap.String("doctorId", doc.UserID),
		zap.String("date", date),
		zap.String("time", slotTime),
	)
	return appt, nil
}

// ensurePatient returns the patient document for the account, creating it on
// first booking.
func (s *DefaultBookingService) ensurePatient(userID string) (*models.Patient, error) {
	pat, err := s.Patients.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if pat != nil {
		return pat, nil
	}

	pat = &models.Patient{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.Patients.Create(pat); err != nil {
		// Concurrent first bookings can race the insert; the unique userId
		// index rejects the loser, so re-read.
		existing, ferr := s.Patients.GetByUserID(userID)
		if ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return pat, nil
}

func slotOpen(doc *models.Doctor, date, slotTime string) bool {
	for _, day := range doc.Availability {
		if day.Date != date {
			continue
		}
		for _, slot := range day.Slots {
			if slot.Time == slotTime {
				return slot.Status == models.SlotAvailable
			}
		}
		return false
	}
	return false
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}

func doctorDisplayName(doc *models.Doctor) string {
	if doc.PersonalDetails.FullName != "" {
		return doc.PersonalDetails.FullName
	}
	if doc.Clinic != nil && doc.Clinic.FullName != "" {
		return doc.Clinic.FullName
	}
	return doc.Email
}
