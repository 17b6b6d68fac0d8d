package models

import "time"

// Patient-side appointment statuses.
const (
	AppointmentUpcoming  = "booked"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentMissed    = "missed"
)

// PatientAppointment is a patient-local projection of a booking. Entries in
// the previous bucket additionally carry the rating and feedback the patient
// left.
type PatientAppointment struct {
	AppointmentID string `bson:"appointmentId" json:"appointmentId"`
	DoctorID      string `bson:"doctorId" json:"doctorId"`
	Date          string `bson:"date" json:"date"`
	Time          string `bson:"time" json:"time"`
	Status        string `bson:"status" json:"status"`
	Rating        int    `bson:"rating,omitempty" json:"rating,omitempty"`
	Feedback      string `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// PatientAppointments partitions a patient's bookings by whether their
// scheduled time is still ahead. An appointmentId appears in at most one
// bucket at a time.
type PatientAppointments struct {
	Upcoming []PatientAppointment `bson:"upcoming" json:"upcoming"`
	Previous []PatientAppointment `bson:"previous" json:"previous"`
}

type Patient struct {
	ID           string              `bson:"id" json:"id"`
	UserID       string              `bson:"userId" json:"userId"` // owning account id
	Appointments PatientAppointments `bson:"appointments" json:"appointments"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

// UpcomingView is the read model for a patient's upcoming list: the stored
// entry plus a display status and a countdown label.
type UpcomingView struct {
	PatientAppointment
	DoctorName    string `json:"doctorName,omitempty"`
	DisplayStatus string `json:"displayStatus"` // active | upcoming | history
	JoinIn        string `json:"joinIn"`
}
