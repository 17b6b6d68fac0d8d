package doctorRepo

import "medisync/models"

// DoctorRepository defines data access for doctor documents. The doctor
// document is the sole lock boundary for slot mutation: every slot write
// here is a filtered conditional update, never a load-mutate-save of the
// whole availability array.
type DoctorRepository interface {
	GetByID(id string) (*models.Doctor, error)
	// GetByUserID returns (nil, nil) when no doctor exists for the account.
	GetByUserID(userID string) (*models.Doctor, error)
	Create(doc *models.Doctor) error
	Update(doc *models.Doctor) error

	// ReplaceDayAvailability replaces the slot list for one date, or appends
	// the date when absent. Prior busy/booked state on that date is
	// discarded by design.
	ReplaceDayAvailability(doctorID string, day models.DayAvailability) error
	// MarkSlotBusy transitions a slot to busy unless it is booked. Returns
	// false when the slot was booked or absent.
	MarkSlotBusy(doctorID, date, slotTime string) (bool, error)
	// ReleaseSlot returns a booked slot to available and clears its holder.
	ReleaseSlot(doctorID, date, slotTime string) (bool, error)

	PullAppointment(doctorID, appointmentID string) error
	ReplaceAppointments(doctorID string, appts []models.DoctorAppointment) error

	// ApplyReview atomically bumps the rating aggregate and drops the
	// reviewed appointment from the active list.
	ApplyReview(doctorID string, stars int, appointmentID string) error
	AppendPrivateReview(doctorID string, review models.PrivateReview) error

	SetStatus(doctorID, status string) error

	// ListUserIDs returns the owning account ids of all doctors; the
	// periodic lifecycle sweep iterates them.
	ListUserIDs() ([]string, error)
}
