// Package doctor covers the doctor onboarding flow: detail submission,
// verification, and the public clinic projection.
package doctor

import (
	"fmt"
	"time"

	doctorRepo "medisync/database/repository/doctor"
	"medisync/models"
	"medisync/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DoctorService manages doctor profiles.
type DoctorService interface {
	// SubmitPersonalDetails creates the doctor document on first contact
	// and stores the personal block.
	SubmitPersonalDetails(userID, email string, details models.PersonalDetails) (*models.Doctor, error)
	// SubmitProfessionalDetails stores credentials and (re)enters the
	// verification queue.
	SubmitProfessionalDetails(userID string, details models.ProfessionalDetails) (*models.Doctor, error)
	VerificationStatus(userID string) (string, error)
	// SetupClinic assembles the public clinic card from the stored detail
	// blocks. Requires a verified doctor with complete details.
	SetupClinic(userID string) (*models.Clinic, error)
	GetClinic(userID string) (*models.Clinic, error)
	GetProfile(userID string) (*models.Doctor, error)
	// Verify flips a doctor to verified; called from the admin surface.
	Verify(doctorUserID string) error
}

// DefaultDoctorService is the production implementation.
type DefaultDoctorService struct {
	Repo doctorRepo.DoctorRepository
}

func (s *DefaultDoctorService) SubmitPersonalDetails(userID, email string, details models.PersonalDetails) (*models.Doctor, error) {
	if details.FullName == "" {
		return nil, utils.NewValidation("fullName is required")
	}

	doc, err := s.Repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		doc = &models.Doctor{
			ID:        uuid.New().String(),
			UserID:    userID,
			Email:     email,
			Status:    models.DoctorPending,
			CreatedAt: time.Now(),
		}
		doc.PersonalDetails = details
		if err := s.Repo.Create(doc); err != nil {
			return nil, fmt.Errorf("failed to create doctor: %w", err)
		}
		utils.GetLogger().Info("doctor profile created", zap.String("userId", userID))
		return doc, nil
	}

	doc.PersonalDetails = details
	if err := s.Repo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	return doc, nil
}

func (s *DefaultDoctorService) SubmitProfessionalDetails(userID string, details models.ProfessionalDetails) (*models.Doctor, error) {
	if details.Specialisation == "" || details.RegistrationNumber == "" {
		return nil, utils.NewValidation("specialisation and registrationNumber are required")
	}

	doc, err := s.Repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return nil, utils.NewNotFound("Submit personal details first")
	}

	doc.ProfessionalDetails = details
	// New credentials restart review even for a previously verified doctor.
	doc.Status = models.DoctorPending
	if err := s.Repo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	return doc, nil
}

func (s *DefaultDoctorService) VerificationStatus(userID string) (string, error) {
	doc, err := s.Repo.GetByUserID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return "", utils.NewNotFound("Doctor not found")
	}
	return doc.Status, nil
}

func (s *DefaultDoctorService) SetupClinic(userID string) (*models.Clinic, error) {
	doc, err := s.Repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return nil, utils.NewNotFound("Doctor not found")
	}
	if doc.Status != models.DoctorVerified {
		return nil, utils.NewPermissionDenied("Doctor is not verified yet")
	}
	if doc.PersonalDetails.FullName == "" || doc.ProfessionalDetails.Specialisation == "" ||
		doc.ProfessionalDetails.ConsultationFee <= 0 {
		return nil, utils.NewValidation("complete personal and professional details before clinic setup")
	}

	clinic := &models.Clinic{
		FullName:        doc.PersonalDetails.FullName,
		Specialisation:  doc.ProfessionalDetails.Specialisation,
		Education:       doc.ProfessionalDetails.Education,
		Image:           doc.PersonalDetails.Image,
		ConsultationFee: doc.ProfessionalDetails.ConsultationFee,
		City:            doc.PersonalDetails.City,
		Country:         doc.PersonalDetails.Country,
	}
	doc.Clinic = clinic
	if err := s.Repo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to store clinic: %w", err)
	}
	return clinic, nil
}

func (s *DefaultDoctorService) GetClinic(userID string) (*models.Clinic, error) {
	doc, err := s.Repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil || doc.Clinic == nil {
		return nil, utils.NewNotFound("Clinic not found")
	}
	return doc.Clinic, nil
}

func (s *DefaultDoctorService) GetProfile(userID string) (*models.Doctor, error) {
	doc, err := s.Repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return nil, utils.NewNotFound("Doctor not found")
	}
	return doc, nil
}

func (s *DefaultDoctorService) Verify(doctorUserID string) error {
	doc, err := s.Repo.GetByUserID(doctorUserID)
	if err != nil {
		return fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return utils.NewNotFound("Doctor not found")
	}
	if err := s.Repo.SetStatus(doc.ID, models.DoctorVerified); err != nil {
		return fmt.Errorf("failed to verify doctor: %w", err)
	}
	utils.GetLogger().Info("doctor verified", zap.String("userId", doctorUserID))
	return nil
}
