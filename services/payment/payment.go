// Package payment handles the paid booking flow: a Stripe payment intent is
// created up front carrying the booking details as metadata, and the booking
// itself only runs after the charge is confirmed succeeded.
package payment

import (
	"context"
	"fmt"
	"time"

	doctorRepo "medisync/database/repository/doctor"
	paymentRepo "medisync/database/repository/payment"
	"medisync/models"
	"medisync/services/booking"
	"medisync/timeutil"
	"medisync/utils"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// IntentResult is what the client needs to drive the Stripe checkout.
type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	AppointmentID   string `json:"appointmentId"`
}

// PaymentService drives paid bookings.
type PaymentService interface {
	// CreateIntent opens a payment intent for the given slot. The
	// appointment id is generated here so the confirm step and the intent
	// metadata agree on it.
	CreateIntent(patientUserID string, req models.CreateIntentRequest) (*IntentResult, error)
	// ConfirmPayment verifies the charge succeeded, records it, and books
	// the slot through the shared booking path.
	ConfirmPayment(ctx context.Context, patient booking.PatientRef, req models.ConfirmPaymentRequest) (*models.Appointment, error)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Doctors  doctorRepo.DoctorRepository
	Payments paymentRepo.PaymentRepository
	Booking  booking.BookingService
}

func (s *DefaultPaymentService) CreateIntent(patientUserID string, req models.CreateIntentRequest) (*IntentResult, error) {
	if req.Amount <= 0 {
		return nil, utils.NewValidation("Invalid payment amount")
	}
	if !timeutil.ValidDate(req.Date) {
		return nil, utils.NewValidation("invalid date %q, expected YYYY-MM-DD", req.Date)
	}
	if _, _, err := timeutil.ParseSlotLabel(req.Time); err != nil {
		return nil, utils.NewValidation("invalid slot %q", req.Time)
	}

	doc, err := s.Doctors.GetByUserID(req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return nil, utils.NewNotFound("Doctor not found")
	}

	appointmentID := uuid.New().String()
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount * 100)), // cents
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("patientId", patientUserID)
	params.AddMetadata("doctorId", req.DoctorID)
	params.AddMetadata("appointmentId", appointmentID)
	params.AddMetadata("date", req.Date)
	params.AddMetadata("time", req.Time)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, utils.NewUpstreamFailure("Failed to create payment intent")
	}

	utils.GetLogger().Info("payment intent created",
		zap.String("paymentIntentId", pi.ID),
		zap.String("appointmentId", appointmentID),
	)
	return &IntentResult{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		AppointmentID:   appointmentID,
	}, nil
}

func (s *DefaultPaymentService) ConfirmPayment(ctx context.Context, patient booking.PatientRef, req models.ConfirmPaymentRequest) (*models.Appointment, error) {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, utils.NewUpstreamFailure("Failed to retrieve payment intent")
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, utils.NewValidation("Payment not completed. Status: %s", pi.Status)
	}

	record := &models.Payment{
		ID:              uuid.New().String(),
		Amount:          float64(pi.Amount) / 100,
		PatientID:       patient.UserID,
		DoctorID:        req.DoctorID,
		AppointmentID:   req.AppointmentID,
		StripePaymentID: req.PaymentIntentID,
		Status:          "completed",
		Date:            req.Date,
		Time:            req.Time,
		CreatedAt:       time.Now(),
	}
	if err := s.Payments.Create(record); err != nil {
		// A duplicate stripePaymentId means this confirmation already ran.
		return nil, utils.NewValidation("Payment has already been confirmed")
	}

	appt, err := s.Booking.BookAppointment(ctx, req.DoctorID, patient, req.Date, req.Time, req.AppointmentID, true)
	if err != nil {
		return nil, err
	}
	return appt, nil
}
