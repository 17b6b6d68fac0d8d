package availability

import (
	"sync"
	"testing"

	"medisync/models"
	"medisync/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDoctorRepo is an in-memory DoctorRepository holding one doctor. Its
// slot mutations apply the same status guards as the Mongo conditional
// updates.
type fakeDoctorRepo struct {
	mu  sync.Mutex
	doc *models.Doctor
}

func (r *fakeDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil || r.doc.ID != id {
		return nil, nil
	}
	cp := *r.doc
	return &cp, nil
}

func (r *fakeDoctorRepo) GetByUserID(userID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil || r.doc.UserID != userID {
		return nil, nil
	}
	cp := *r.doc
	return &cp, nil
}

func (r *fakeDoctorRepo) Create(doc *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	return nil
}

func (r *fakeDoctorRepo) Update(doc *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	return nil
}

func (r *fakeDoctorRepo) ReplaceDayAvailability(doctorID string, day models.DayAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.doc.Availability {
		if r.doc.Availability[i].Date == day.Date {
			r.doc.Availability[i] = day
			return nil
		}
	}
	r.doc.Availability = append(r.doc.Availability, day)
	return nil
}

func (r *fakeDoctorRepo) MarkSlotBusy(doctorID, date, slotTime string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.doc.Availability {
		if r.doc.Availability[i].Date != date {
			continue
		}
		for j := range r.doc.Availability[i].Slots {
			s := &r.doc.Availability[i].Slots[j]
			if s.Time == slotTime && s.Status != models.SlotBooked {
				s.Status = models.SlotBusy
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeDoctorRepo) ReleaseSlot(doctorID, date, slotTime string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.doc.Availability {
		if r.doc.Availability[i].Date != date {
			continue
		}
		for j := range r.doc.Availability[i].Slots {
			s := &r.doc.Availability[i].Slots[j]
			if s.Time == slotTime && s.Status == models.SlotBooked {
				s.Status = models.SlotAvailable
				s.BookedBy = ""
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeDoctorRepo) PullAppointment(doctorID, appointmentID string) error { return nil }

func (r *fakeDoctorRepo) ReplaceAppointments(doctorID string, appts []models.DoctorAppointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Appointments = appts
	return nil
}

func (r *fakeDoctorRepo) ApplyReview(doctorID string, stars int, appointmentID string) error {
	return nil
}

func (r *fakeDoctorRepo) AppendPrivateReview(doctorID string, review models.PrivateReview) error {
	return nil
}

func (r *fakeDoctorRepo) SetStatus(doctorID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Status = status
	return nil
}

func (r *fakeDoctorRepo) ListUserIDs() ([]string, error) {
	return []string{r.doc.UserID}, nil
}

func verifiedDoctor() *models.Doctor {
	return &models.Doctor{ID: "doc-1", UserID: "user-1", Status: models.DoctorVerified}
}

func TestConcurrentPublishOfNewDateYieldsOneEntry(t *testing.T) {
	repo := &fakeDoctorRepo{doc: verifiedDoctor()}
	svc := &DefaultAvailabilityService{Repo: repo}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.SetAvailability("user-1", []models.DayInput{
				{Date: "2099-01-02", Slots: []models.SlotInput{
					{Time: "9:00am - 10:00am"},
				}},
			})
		}()
	}
	wg.Wait()

	// Racing publishers of a brand-new date must not stack duplicate date
	// entries on the doctor document.
	require.Len(t, repo.doc.Availability, 1)
	assert.Equal(t, "2099-01-02", repo.doc.Availability[0].Date)
}

func TestSetAvailabilityRoundTrip(t *testing.T) {
	repo := &fakeDoctorRepo{doc: verifiedDoctor()}
	svc := &DefaultAvailabilityService{Repo: repo}

	err := svc.SetAvailability("user-1", []models.DayInput{
		{Date: "2099-01-02", Slots: []models.SlotInput{
			{Time: "9:00am - 10:00am"},
			{Time: "10:00am - 11:00am"},
		}},
	})
	require.NoError(t, err)

	views, err := svc.GetAvailability("user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "2099-01-02", views[0].Date)
	assert.Equal(t, []string{"9:00am - 10:00am", "10:00am - 11:00am"}, views[0].AvailableSlots)
	assert.Empty(t, views[0].BusySlots)
	assert.Empty(t, views[0].BookedSlots)
}

func TestSetAvailabilityResetOverwritesSlotState(t *testing.T) {
	repo := &fakeDoctorRepo{doc: verifiedDoctor()}
	repo.doc.Availability = []models.DayAvailability{{
		Date: "2099-01-02",
		Slots: []models.Slot{
			{Time: "9:00am - 10:00am", Status: models.SlotBooked, BookedBy: "patient-1"},
			{Time: "10:00am - 11:00am", Status: models.SlotBusy},
		},
	}}
	svc := &DefaultAvailabilityService{Repo: repo}

	err := svc.SetAvailability("user-1", []models.DayInput{
		{Date: "2099-01-02", Slots: []models.SlotInput{{Time: "9:00am - 10:00am"}}},
	})
	require.NoError(t, err)

	views, err := svc.GetAvailability("user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, []string{"9:00am - 10:00am"}, views[0].AvailableSlots)
	assert.Empty(t, views[0].BookedSlots)
}

func TestSetAvailabilityRequiresVerifiedDoctor(t *testing.T) {
	doc := verifiedDoctor()
	doc.Status = models.DoctorPending
	svc := &DefaultAvailabilityService{Repo: &fakeDoctorRepo{doc: doc}}

	err := svc.SetAvailability("user-1", []models.DayInput{
		{Date: "2099-01-02", Slots: []models.SlotInput{{Time: "9:00am - 10:00am"}}},
	})
	assert.True(t, utils.HasCode(err, utils.CodePermissionDenied))
}

func TestSetAvailabilityValidation(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: &fakeDoctorRepo{doc: verifiedDoctor()}}

	cases := []struct {
		name string
		days []models.DayInput
	}{
		{"empty", nil},
		{"bad date", []models.DayInput{{Date: "2nd January,2099", Slots: []models.SlotInput{{Time: "9:00am - 10:00am"}}}}},
		{"bad slot label", []models.DayInput{{Date: "2099-01-02", Slots: []models.SlotInput{{Time: "morning"}}}}},
		{"duplicate slot", []models.DayInput{{Date: "2099-01-02", Slots: []models.SlotInput{
			{Time: "9:00am - 10:00am"}, {Time: "9:00am - 10:00am"},
		}}}},
		{"duplicate date", []models.DayInput{
			{Date: "2099-01-02", Slots: []models.SlotInput{{Time: "9:00am - 10:00am"}}},
			{Date: "2099-01-02", Slots: []models.SlotInput{{Time: "10:00am - 11:00am"}}},
		}},
	}
	for _, tc := range cases {
		err := svc.SetAvailability("user-1", tc.days)
		assert.True(t, utils.HasCode(err, utils.CodeValidation), tc.name)
	}
}

func TestMarkSlotsBusyClassification(t *testing.T) {
	repo := &fakeDoctorRepo{doc: verifiedDoctor()}
	repo.doc.Availability = []models.DayAvailability{{
		Date: "2099-01-02",
		Slots: []models.Slot{
			{Time: "9:00am - 10:00am", Status: models.SlotAvailable},
			{Time: "10:00am - 11:00am", Status: models.SlotBooked, BookedBy: "patient-1"},
			{Time: "11:00am - 12:00pm", Status: models.SlotBusy},
		},
	}}
	svc := &DefaultAvailabilityService{Repo: repo}

	results, err := svc.MarkSlotsBusy("user-1", []models.BusyScheduleInput{
		{Date: "2099-01-02", Times: []string{
			"9:00am - 10:00am",
			"10:00am - 11:00am",
			"11:00am - 12:00pm",
			"5:00pm - 6:00pm",
		}},
		{Date: "2099-09-09", Times: []string{"9:00am - 10:00am"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Marking an already busy slot counts as marked, only booked is protected.
	assert.Equal(t, []string{"9:00am - 10:00am", "11:00am - 12:00pm"}, results[0].MarkedBusy)
	assert.Equal(t, []string{"10:00am - 11:00am"}, results[0].AlreadyBooked)
	assert.Equal(t, []string{"5:00pm - 6:00pm"}, results[0].NotFound)

	// Unknown date: everything lands in notFound.
	assert.Equal(t, []string{"9:00am - 10:00am"}, results[1].NotFound)

	// The booked slot kept its holder.
	doc, _ := repo.GetByUserID("user-1")
	assert.Equal(t, models.SlotBooked, doc.Availability[0].Slots[1].Status)
	assert.Equal(t, "patient-1", doc.Availability[0].Slots[1].BookedBy)
}

func TestGetAvailabilityHidesPastDates(t *testing.T) {
	repo := &fakeDoctorRepo{doc: verifiedDoctor()}
	repo.doc.Availability = []models.DayAvailability{
		{Date: "2020-01-02", Slots: []models.Slot{{Time: "9:00am - 10:00am", Status: models.SlotAvailable}}},
		{Date: "2099-01-02", Slots: []models.Slot{{Time: "9:00am - 10:00am", Status: models.SlotAvailable}}},
	}
	svc := &DefaultAvailabilityService{Repo: repo}

	views, err := svc.GetAvailability("user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "2099-01-02", views[0].Date)
}

func TestGetAvailabilityUnknownDoctor(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: &fakeDoctorRepo{doc: verifiedDoctor()}}
	_, err := svc.GetAvailability("nobody")
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}
