package lifecycle

import (
	"fmt"

	"medisync/models"
	"medisync/timeutil"
	"medisync/utils"

	"go.uber.org/zap"
)

// Upcoming annotates the patient's upcoming list with the doctor's display
// name, a coarse display status, and a countdown label.
func (s *DefaultLifecycleService) Upcoming(patientUserID string) ([]models.UpcomingView, error) {
	pat, err := s.Patients.GetByUserID(patientUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if pat == nil {
		return []models.UpcomingView{}, nil
	}

	now := s.now()
	doctorNames := make(map[string]string)
	views := make([]models.UpcomingView, 0, len(pat.Appointments.Upcoming))
	for _, entry := range pat.Appointments.Upcoming {
		view := models.UpcomingView{PatientAppointment: entry}

		name, seen := doctorNames[entry.DoctorID]
		if !seen {
			doc, err := s.Doctors.GetByUserID(entry.DoctorID)
			if err != nil {
				utils.GetLogger().Warn("failed to resolve doctor name",
					zap.String("doctorId", entry.DoctorID), zap.Error(err))
			} else if doc != nil {
				name = doc.PersonalDetails.FullName
			}
			doctorNames[entry.DoctorID] = name
		}
		view.DoctorName = name

		start, end, err := timeutil.SlotWindow(entry.Date, entry.Time)
		if err != nil {
			view.DisplayStatus = "upcoming"
			view.JoinIn = ""
			views = append(views, view)
			continue
		}
		switch {
		case now.Before(start):
			view.DisplayStatus = "upcoming"
		case now.Before(end):
			view.DisplayStatus = "active"
		default:
			view.DisplayStatus = "history"
		}
		view.JoinIn = timeutil.Countdown(now, start)
		views = append(views, view)
	}
	return views, nil
}

// History migrates anything elapsed first, then returns the previous bucket
// so reads never show a past appointment as upcoming.
func (s *DefaultLifecycleService) History(patientUserID string) ([]models.PatientAppointment, error) {
	if err := s.SweepPatient(patientUserID); err != nil {
		return nil, err
	}

	pat, err := s.Patients.GetByUserID(patientUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if pat == nil {
		return []models.PatientAppointment{}, nil
	}
	if pat.Appointments.Previous == nil {
		return []models.PatientAppointment{}, nil
	}
	return pat.Appointments.Previous, nil
}
