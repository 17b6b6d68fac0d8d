package appointmentRepo

import (
	"context"
	"errors"

	"medisync/models"
)

// ErrSlotTaken is returned by BookAppointment when the slot's conditional
// update matched nothing: the slot is absent, busy, or already booked.
// Exactly one of two racing bookings for the same slot sees a match.
var ErrSlotTaken = errors.New("slot is either not available or already taken")

// BookingParams carries everything the booking transaction writes.
type BookingParams struct {
	Appointment  *models.Appointment
	DoctorDocID  string // doctor document id holding the slot
	PatientDocID string // patient document receiving the upcoming entry
	// PaymentStatus is stored on the doctor-side entry ("done" on the paid
	// path, empty otherwise).
	PaymentStatus string
	// PatientStatus is the status stamped on the patient's upcoming entry.
	PatientStatus string
}

// AppointmentRepository defines data access for the canonical appointment
// records, plus the transactional booking write that fans a booking out to
// the doctor and patient documents.
type AppointmentRepository interface {
	GetByID(appointmentID string) (*models.Appointment, error)
	Delete(appointmentID string) error
	SetStatus(appointmentID, status string) error
	// SaveReview stamps rating/review and flips status to completed, but
	// only when the appointment has not been completed yet. Returns false
	// when the guard did not match, which makes repeated submissions
	// harmless.
	SaveReview(appointmentID string, rating int, review string, anonymous bool) (bool, error)
	// CountActiveForSlot counts non-terminal appointments referencing a
	// doctor/date/time combination; used to audit the slot invariant.
	CountActiveForSlot(doctorID, date, slotTime string) (int64, error)

	// BookAppointment performs the slot transition and the tri-write
	// (appointment record, doctor list, patient list) in one session
	// transaction. Returns ErrSlotTaken when the slot guard fails.
	BookAppointment(ctx context.Context, params BookingParams) error
}
