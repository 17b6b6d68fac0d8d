package booking

import (
	"context"
	"sync"
	"testing"

	appointmentRepo "medisync/database/repository/appointment"
	"medisync/models"
	"medisync/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the three Mongo repositories. Its
// BookAppointment applies the same all-or-nothing semantics as the session
// transaction: the slot guard is checked and flipped under one lock.
type memStore struct {
	mu           sync.Mutex
	doctor       *models.Doctor
	patients     map[string]*models.Patient // by userID
	appointments map[string]*models.Appointment
}

func newMemStore(doc *models.Doctor) *memStore {
	return &memStore{
		doctor:       doc,
		patients:     make(map[string]*models.Patient),
		appointments: make(map[string]*models.Appointment),
	}
}

// DoctorRepository

func (s *memStore) GetByID(id string) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctor == nil || s.doctor.ID != id {
		return nil, nil
	}
	cp := *s.doctor
	return &cp, nil
}

func (s *memStore) GetByUserID(userID string) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctor == nil || s.doctor.UserID != userID {
		return nil, nil
	}
	cp := *s.doctor
	return &cp, nil
}

func (s *memStore) Create(doc *models.Doctor) error { s.doctor = doc; return nil }
func (s *memStore) Update(doc *models.Doctor) error { s.doctor = doc; return nil }

func (s *memStore) ReplaceDayAvailability(doctorID string, day models.DayAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctor.Availability = append(s.doctor.Availability, day)
	return nil
}

func (s *memStore) MarkSlotBusy(doctorID, date, slotTime string) (bool, error) { return false, nil }
func (s *memStore) ReleaseSlot(doctorID, date, slotTime string) (bool, error)  { return false, nil }
func (s *memStore) PullAppointment(doctorID, appointmentID string) error       { return nil }
func (s *memStore) ReplaceAppointments(doctorID string, appts []models.DoctorAppointment) error {
	return nil
}
func (s *memStore) ApplyReview(doctorID string, stars int, appointmentID string) error { return nil }
func (s *memStore) AppendPrivateReview(doctorID string, review models.PrivateReview) error {
	return nil
}
func (s *memStore) SetStatus(doctorID, status string) error { return nil }
func (s *memStore) ListUserIDs() ([]string, error)          { return nil, nil }

// patientStore wraps memStore to satisfy PatientRepository without method
// name collisions on GetByUserID.
type patientStore struct{ *memStore }

func (s patientStore) GetByID(id string) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s patientStore) GetByUserID(userID string) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s patientStore) Create(p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.UserID] = p
	return nil
}

func (s patientStore) PullUpcoming(patientID, appointmentID string) error { return nil }
func (s patientStore) MoveToPrevious(patientID, appointmentID string, entry models.PatientAppointment) error {
	return nil
}
func (s patientStore) ListUserIDs() ([]string, error) { return nil, nil }

// apptStore satisfies AppointmentRepository.
type apptStore struct{ *memStore }

func (s apptStore) GetByID(appointmentID string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s apptStore) Delete(appointmentID string) error          { return nil }
func (s apptStore) SetStatus(appointmentID, st string) error   { return nil }
func (s apptStore) CountActiveForSlot(d, dt, tm string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, a := range s.appointments {
		if a.DoctorID == d && a.Date == dt && a.Time == tm && !a.Terminal() {
			n++
		}
	}
	return n, nil
}

func (s apptStore) SaveReview(appointmentID string, rating int, review string, anonymous bool) (bool, error) {
	return false, nil
}

func (s apptStore) BookAppointment(ctx context.Context, params appointmentRepo.BookingParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt := params.Appointment
	var slot *models.Slot
	for i := range s.doctor.Availability {
		if s.doctor.Availability[i].Date != appt.Date {
			continue
		}
		for j := range s.doctor.Availability[i].Slots {
			if s.doctor.Availability[i].Slots[j].Time == appt.Time {
				slot = &s.doctor.Availability[i].Slots[j]
			}
		}
	}
	if slot == nil || slot.Status != models.SlotAvailable {
		return appointmentRepo.ErrSlotTaken
	}

	slot.Status = models.SlotBooked
	slot.BookedBy = appt.PatientID
	s.appointments[appt.AppointmentID] = appt
	s.doctor.Appointments = append(s.doctor.Appointments, models.DoctorAppointment{
		AppointmentID: appt.AppointmentID,
		PatientID:     appt.PatientID,
		Date:          appt.Date,
		Time:          appt.Time,
		PaymentStatus: params.PaymentStatus,
	})
	for _, p := range s.patients {
		if p.ID == params.PatientDocID {
			p.Appointments.Upcoming = append(p.Appointments.Upcoming, models.PatientAppointment{
				AppointmentID: appt.AppointmentID,
				DoctorID:      appt.DoctorID,
				Date:          appt.Date,
				Time:          appt.Time,
				Status:        params.PatientStatus,
			})
		}
	}
	return nil
}

func newBookingService(store *memStore) *DefaultBookingService {
	return &DefaultBookingService{
		Doctors:      store,
		Patients:     patientStore{store},
		Appointments: apptStore{store},
	}
}

func openDoctor() *models.Doctor {
	return &models.Doctor{
		ID:     "doc-1",
		UserID: "dr-jones",
		Status: models.DoctorVerified,
		PersonalDetails: models.PersonalDetails{
			FullName: "Dr. Indiana Jones",
		},
		Availability: []models.DayAvailability{{
			Date: "2099-01-02",
			Slots: []models.Slot{
				{Time: "9:00am - 10:00am", Status: models.SlotAvailable},
				{Time: "10:00am - 11:00am", Status: models.SlotBusy},
			},
		}},
	}
}

func TestBookAppointment(t *testing.T) {
	store := newMemStore(openDoctor())
	svc := newBookingService(store)

	ref := PatientRef{UserID: "pat-1", Name: "Ada", Email: "ada@example.com"}
	appt, err := svc.BookAppointment(context.Background(), "dr-jones", ref, "2099-01-02", "9:00am - 10:00am", "", false)
	require.NoError(t, err)

	assert.NotEmpty(t, appt.AppointmentID)
	assert.Equal(t, models.AppointmentUpcoming, appt.Status)
	assert.Equal(t, "Dr. Indiana Jones", appt.DoctorName)
	assert.Equal(t, "Ada", appt.PatientName)

	// Slot flipped and holder recorded.
	doc, _ := store.GetByUserID("dr-jones")
	assert.Equal(t, models.SlotBooked, doc.Availability[0].Slots[0].Status)
	assert.Equal(t, "pat-1", doc.Availability[0].Slots[0].BookedBy)

	// Patient document was provisioned lazily with the upcoming entry.
	pat, _ := patientStore{store}.GetByUserID("pat-1")
	require.NotNil(t, pat)
	require.Len(t, pat.Appointments.Upcoming, 1)
	assert.Equal(t, appt.AppointmentID, pat.Appointments.Upcoming[0].AppointmentID)
}

func TestBookAppointmentPaid(t *testing.T) {
	store := newMemStore(openDoctor())
	svc := newBookingService(store)

	ref := PatientRef{UserID: "pat-1", Email: "ada@example.com"}
	appt, err := svc.BookAppointment(context.Background(), "dr-jones", ref, "2099-01-02", "9:00am - 10:00am", "pre-generated-id", true)
	require.NoError(t, err)

	assert.Equal(t, "pre-generated-id", appt.AppointmentID)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)
	assert.Equal(t, "ada@example.com", appt.PatientName)

	doc, _ := store.GetByUserID("dr-jones")
	require.Len(t, doc.Appointments, 1)
	assert.Equal(t, "done", doc.Appointments[0].PaymentStatus)
}

func TestBookAppointmentRejectsTakenSlot(t *testing.T) {
	store := newMemStore(openDoctor())
	svc := newBookingService(store)
	ref := PatientRef{UserID: "pat-1", Email: "ada@example.com"}

	// Busy slot is not bookable.
	_, err := svc.BookAppointment(context.Background(), "dr-jones", ref, "2099-01-02", "10:00am - 11:00am", "", false)
	assert.True(t, utils.HasCode(err, utils.CodeSlotUnavailable))

	// Neither is an unknown one.
	_, err = svc.BookAppointment(context.Background(), "dr-jones", ref, "2099-01-02", "5:00pm - 6:00pm", "", false)
	assert.True(t, utils.HasCode(err, utils.CodeSlotUnavailable))
}

func TestBookAppointmentValidation(t *testing.T) {
	svc := newBookingService(newMemStore(openDoctor()))
	ref := PatientRef{UserID: "pat-1"}

	_, err := svc.BookAppointment(context.Background(), "dr-jones", ref, "2nd January,2099", "9:00am - 10:00am", "", false)
	assert.True(t, utils.HasCode(err, utils.CodeValidation))

	_, err = svc.BookAppointment(context.Background(), "dr-jones", ref, "2099-01-02", "morning", "", false)
	assert.True(t, utils.HasCode(err, utils.CodeValidation))

	_, err = svc.BookAppointment(context.Background(), "dr-nobody", ref, "2099-01-02", "9:00am - 10:00am", "", false)
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}

func TestConcurrentBookingExactlyOneWins(t *testing.T) {
	store := newMemStore(openDoctor())
	svc := newBookingService(store)

	const racers = 20
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ref := PatientRef{UserID: "pat-" + string(rune('a'+n)), Email: "p@example.com"}
			_, err := svc.BookAppointment(context.Background(), "dr-jones", ref, "2099-01-02", "9:00am - 10:00am", "", false)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.True(t, utils.HasCode(err, utils.CodeSlotUnavailable), err.Error())
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, losses)

	// Exactly one active appointment references the slot.
	n, err := apptStore{store}.CountActiveForSlot("dr-jones", "2099-01-02", "9:00am - 10:00am")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
