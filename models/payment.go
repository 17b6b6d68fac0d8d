package models

import "time"

// Payment records a completed Stripe charge tied to a booking.
type Payment struct {
	ID              string    `bson:"id" json:"id"`
	Amount          float64   `bson:"amount" json:"amount"`
	PatientID       string    `bson:"patientId" json:"patientId"`
	DoctorID        string    `bson:"doctorId" json:"doctorId"`
	AppointmentID   string    `bson:"appointmentId" json:"appointmentId"`
	StripePaymentID string    `bson:"stripePaymentId" json:"stripePaymentId"`
	Status          string    `bson:"status" json:"status"` // completed
	Date            string    `bson:"date" json:"date"`
	Time            string    `bson:"time" json:"time"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}
