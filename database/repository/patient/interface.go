package patientRepo

import "medisync/models"

// PatientRepository defines data access for patient documents. The patient
// document is the sole lock boundary for upcoming/previous list mutation.
type PatientRepository interface {
	GetByID(id string) (*models.Patient, error)
	// GetByUserID returns (nil, nil) when no patient exists for the account.
	GetByUserID(userID string) (*models.Patient, error)
	Create(p *models.Patient) error

	PullUpcoming(patientID, appointmentID string) error
	// MoveToPrevious drops the appointment from upcoming and appends the
	// given entry to previous in one atomic update.
	MoveToPrevious(patientID, appointmentID string, entry models.PatientAppointment) error

	// ListUserIDs returns the owning account ids of all patients; the
	// periodic lifecycle sweep iterates them.
	ListUserIDs() ([]string, error)
}
