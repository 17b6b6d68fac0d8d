package models

// Request and response payloads for the booking surface.

// SlotInput is one submitted slot; status is forced to "available" on write.
type SlotInput struct {
	Time string `json:"time" binding:"required"`
}

// DayInput is one submitted availability date.
type DayInput struct {
	Date  string      `json:"date" binding:"required"`
	Slots []SlotInput `json:"slots" binding:"required"`
}

// SetAvailabilityRequest defines the payload for publishing availability.
type SetAvailabilityRequest struct {
	Availability []DayInput `json:"availability" binding:"required"`
}

// BusyScheduleInput names the slots of one date a doctor wants blocked.
type BusyScheduleInput struct {
	Date  string   `json:"date" binding:"required"`
	Times []string `json:"times" binding:"required"`
}

// MarkBusyRequest defines the payload for blocking slots.
type MarkBusyRequest struct {
	Schedules []BusyScheduleInput `json:"schedules" binding:"required"`
}

// BusyResult classifies the outcome per requested date. Partial mismatch is
// reported, never an error.
type BusyResult struct {
	Date          string   `json:"date"`
	MarkedBusy    []string `json:"markedBusy"`
	AlreadyBooked []string `json:"alreadyBooked"`
	NotFound      []string `json:"notFound"`
}

// BookAppointmentRequest books one slot. DoctorID is the doctor's owning
// account id.
type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
}

// SaveReviewRequest submits a rating/review for a completed appointment.
type SaveReviewRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Review        string `json:"review"`
	PrivateReview string `json:"privateReview"`
	Anonymous     bool   `json:"anonymous"`
}

// RescheduleRequest asks for an appointment to be rebooked at a new time.
type RescheduleRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// CreateIntentRequest starts a paid booking.
type CreateIntentRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	DoctorID string  `json:"doctorId" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	Time     string  `json:"time" binding:"required"`
}

// ConfirmPaymentRequest completes a paid booking after the charge succeeded.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	DoctorID        string `json:"doctorId" binding:"required"`
	AppointmentID   string `json:"appointmentId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
}
