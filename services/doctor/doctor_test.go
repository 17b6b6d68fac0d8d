package doctor

import (
	"sync"
	"testing"

	"medisync/models"
	"medisync/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu  sync.Mutex
	doc *models.Doctor
}

func (r *fakeRepo) GetByID(id string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil || r.doc.ID != id {
		return nil, nil
	}
	cp := *r.doc
	return &cp, nil
}

func (r *fakeRepo) GetByUserID(userID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil || r.doc.UserID != userID {
		return nil, nil
	}
	cp := *r.doc
	return &cp, nil
}

func (r *fakeRepo) Create(doc *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	return nil
}

func (r *fakeRepo) Update(doc *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	return nil
}

func (r *fakeRepo) ReplaceDayAvailability(doctorID string, day models.DayAvailability) error {
	return nil
}
func (r *fakeRepo) MarkSlotBusy(doctorID, date, slotTime string) (bool, error) { return false, nil }
func (r *fakeRepo) ReleaseSlot(doctorID, date, slotTime string) (bool, error)  { return false, nil }
func (r *fakeRepo) PullAppointment(doctorID, appointmentID string) error       { return nil }
func (r *fakeRepo) ReplaceAppointments(doctorID string, appts []models.DoctorAppointment) error {
	return nil
}
func (r *fakeRepo) ApplyReview(doctorID string, stars int, appointmentID string) error { return nil }
func (r *fakeRepo) AppendPrivateReview(doctorID string, review models.PrivateReview) error {
	return nil
}

func (r *fakeRepo) SetStatus(doctorID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Status = status
	return nil
}

func (r *fakeRepo) ListUserIDs() ([]string, error) { return nil, nil }

func TestOnboardingFlow(t *testing.T) {
	repo := &fakeRepo{}
	svc := &DefaultDoctorService{Repo: repo}

	// Personal details create the profile in pending state.
	doc, err := svc.SubmitPersonalDetails("user-1", "doc@example.com", models.PersonalDetails{
		FullName: "Dr. Indiana Jones",
		City:     "Nairobi",
		Country:  "Kenya",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DoctorPending, doc.Status)
	assert.NotEmpty(t, doc.ID)

	// Clinic setup is blocked until verification.
	_, err = svc.SetupClinic("user-1")
	assert.True(t, utils.HasCode(err, utils.CodePermissionDenied))

	_, err = svc.SubmitProfessionalDetails("user-1", models.ProfessionalDetails{
		Specialisation:     "Cardiology",
		RegistrationNumber: "KMB-1234",
		ConsultationFee:    40,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Verify("user-1"))
	status, err := svc.VerificationStatus("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.DoctorVerified, status)

	clinic, err := svc.SetupClinic("user-1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Indiana Jones", clinic.FullName)
	assert.Equal(t, "Cardiology", clinic.Specialisation)
	assert.Equal(t, 40.0, clinic.ConsultationFee)

	got, err := svc.GetClinic("user-1")
	require.NoError(t, err)
	assert.Equal(t, clinic, got)
}

func TestProfessionalDetailsRequirePersonalFirst(t *testing.T) {
	svc := &DefaultDoctorService{Repo: &fakeRepo{}}
	_, err := svc.SubmitProfessionalDetails("user-1", models.ProfessionalDetails{
		Specialisation:     "Cardiology",
		RegistrationNumber: "KMB-1234",
	})
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}

func TestNewCredentialsResetVerification(t *testing.T) {
	repo := &fakeRepo{doc: &models.Doctor{
		ID:     "doc-1",
		UserID: "user-1",
		Status: models.DoctorVerified,
		PersonalDetails: models.PersonalDetails{
			FullName: "Dr. Indiana Jones",
		},
	}}
	svc := &DefaultDoctorService{Repo: repo}

	doc, err := svc.SubmitProfessionalDetails("user-1", models.ProfessionalDetails{
		Specialisation:     "Neurology",
		RegistrationNumber: "KMB-9999",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DoctorPending, doc.Status)
}

func TestRatingAverage(t *testing.T) {
	doc := &models.Doctor{TotalStars: 14, TotalReviews: 4}
	assert.InDelta(t, 3.5, doc.Rating(), 0.001)

	none := &models.Doctor{}
	assert.Zero(t, none.Rating())
}
