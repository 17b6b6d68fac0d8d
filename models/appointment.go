package models

import "time"

// Appointment is the canonical booking record, source of truth for reviews
// and ratings. The doctor and patient documents hold denormalized
// projections of it.
type Appointment struct {
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	Date          string    `bson:"date" json:"date"`
	Time          string    `bson:"time" json:"time"`
	PatientID     string    `bson:"patientId" json:"patientId"`
	PatientName   string    `bson:"patientName" json:"patientName"`
	PatientEmail  string    `bson:"patientEmail,omitempty" json:"-"`
	DoctorID      string    `bson:"doctorId" json:"doctorId"`
	DoctorName    string    `bson:"doctorName" json:"doctorName"`
	Status        string    `bson:"status" json:"status"` // booked | confirmed | completed | cancelled | missed
	Rating        int       `bson:"rating,omitempty" json:"rating,omitempty"`
	Review        string    `bson:"review,omitempty" json:"review,omitempty"`
	IsAnonymous   bool      `bson:"isAnonymous" json:"isAnonymous"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// Terminal reports whether the appointment has reached a state that no
// longer holds its slot.
func (a *Appointment) Terminal() bool {
	switch a.Status {
	case AppointmentCompleted, AppointmentCancelled, AppointmentMissed:
		return true
	}
	return false
}
