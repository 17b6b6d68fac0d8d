package models

import "time"

// Slot statuses. A slot returns to "available" only by being overwritten when
// the doctor resubmits availability for its date, or when a booking that held
// it is cancelled.
const (
	SlotAvailable = "available"
	SlotBusy      = "busy"
	SlotBooked    = "booked"
)

// Doctor verification statuses.
const (
	DoctorPending  = "pending"
	DoctorVerified = "verified"
)

// Slot is a labeled time interval within a doctor's daily availability.
// Time is a display label like "9:00am - 10:00am"; it is validated at write
// time but stored as a string.
type Slot struct {
	Time     string `bson:"time" json:"time"`
	Status   string `bson:"status" json:"status"`
	BookedBy string `bson:"bookedBy,omitempty" json:"bookedBy,omitempty"`
}

// DayAvailability holds the slots a doctor has published for one date.
// Dates are unique within a doctor; slot times are unique within a date.
type DayAvailability struct {
	Date  string `bson:"date" json:"date"` // YYYY-MM-DD
	Slots []Slot `bson:"slots" json:"slots"`
}

// DoctorAppointment is the doctor-local cache of an active booking.
type DoctorAppointment struct {
	AppointmentID string `bson:"appointmentId" json:"appointmentId"`
	PatientID     string `bson:"patientId" json:"patientId"`
	Date          string `bson:"date" json:"date"`
	Time          string `bson:"time" json:"time"`
	PaymentStatus string `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
}

type PersonalDetails struct {
	FullName    string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	DateOfBirth string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender      string `bson:"gender,omitempty" json:"gender,omitempty"`
	Country     string `bson:"country,omitempty" json:"country,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
	PhoneNo     string `bson:"phoneNo,omitempty" json:"phoneNo,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"` // URL for profile image
}

type ProfessionalDetails struct {
	Specialisation     string  `bson:"specialisation,omitempty" json:"specialisation,omitempty"`
	RegistrationNumber string  `bson:"registrationNumber,omitempty" json:"registrationNumber,omitempty"`
	Education          string  `bson:"education,omitempty" json:"education,omitempty"`
	LicenseImage       string  `bson:"licenseImage,omitempty" json:"licenseImage,omitempty"` // URL for license image
	ConsultationFee    float64 `bson:"consultationFee,omitempty" json:"consultationFee,omitempty"`
}

// Clinic is a public projection assembled from the doctor's detail blocks
// once the doctor is verified.
type Clinic struct {
	FullName        string  `bson:"fullName" json:"fullName"`
	Specialisation  string  `bson:"specialisation" json:"specialisation"`
	Education       string  `bson:"education" json:"education"`
	Image           string  `bson:"image,omitempty" json:"image,omitempty"`
	ConsultationFee float64 `bson:"consultationFee" json:"consultationFee"`
	City            string  `bson:"city,omitempty" json:"city,omitempty"`
	Country         string  `bson:"country,omitempty" json:"country,omitempty"`
}

// PrivateReview is anonymized feedback visible only to the doctor,
// independent of the public rating/review pipeline.
type PrivateReview struct {
	Review    string    `bson:"review" json:"review"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Doctor struct {
	ID                  string              `bson:"id" json:"id"`
	UserID              string              `bson:"userId" json:"userId"` // owning account id
	Email               string              `bson:"email,omitempty" json:"email,omitempty"`
	Status              string              `bson:"status" json:"status"` // pending | verified
	PersonalDetails     PersonalDetails     `bson:"personalDetails" json:"personalDetails"`
	ProfessionalDetails ProfessionalDetails `bson:"professionalDetails" json:"professionalDetails"`
	Clinic              *Clinic             `bson:"clinic,omitempty" json:"clinic,omitempty"`
	Availability        []DayAvailability   `bson:"availability,omitempty" json:"availability,omitempty"`
	Appointments        []DoctorAppointment `bson:"appointments,omitempty" json:"appointments,omitempty"`
	TotalStars          int                 `bson:"totalStars" json:"totalStars"`
	TotalReviews        int                 `bson:"totalReviews" json:"totalReviews"`
	PrivateReviews      []PrivateReview     `bson:"privateReviews,omitempty" json:"-"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Rating returns the running average rating, computed at read time.
func (d *Doctor) Rating() float64 {
	if d.TotalReviews == 0 {
		return 0
	}
	return float64(d.TotalStars) / float64(d.TotalReviews)
}

// DayView is the read model for one availability date, slots partitioned by status.
type DayView struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	BusySlots      []string `json:"busySlots"`
	BookedSlots    []string `json:"bookedSlots"`
}
