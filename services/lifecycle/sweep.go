package lifecycle

import (
	"fmt"

	"medisync/models"
	"medisync/timeutil"
	"medisync/utils"

	"go.uber.org/zap"
)

// SweepDoctor drops entries whose slot window has fully elapsed from the
// doctor's active appointment list. Entries with unparseable dates or slot
// labels are left in place and logged rather than failing the sweep.
func (s *DefaultLifecycleService) SweepDoctor(doctorUserID string) error {
	doc, err := s.Doctors.GetByUserID(doctorUserID)
	if err != nil {
		return fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return utils.NewNotFound("Doctor not found")
	}

	now := s.now()
	kept := make([]models.DoctorAppointment, 0, len(doc.Appointments))
	dropped := 0
	for _, entry := range doc.Appointments {
		_, end, err := timeutil.SlotWindow(entry.Date, entry.Time)
		if err != nil {
			utils.GetLogger().Warn("skipping unparseable doctor appointment entry",
				zap.String("appointmentId", entry.AppointmentID), zap.Error(err))
			kept = append(kept, entry)
			continue
		}
		if end.Before(now) {
			dropped++
			continue
		}
		kept = append(kept, entry)
	}

	if dropped == 0 {
		return nil
	}
	if err := s.Doctors.ReplaceAppointments(doc.ID, kept); err != nil {
		return fmt.Errorf("failed to store swept appointments: %w", err)
	}
	return nil
}

// SweepPatient migrates elapsed upcoming entries to the previous bucket as
// missed and stamps the canonical record to match.
func (s *DefaultLifecycleService) SweepPatient(patientUserID string) error {
	pat, err := s.Patients.GetByUserID(patientUserID)
	if err != nil {
		return fmt.Errorf("failed to fetch patient: %w", err)
	}
	if pat == nil {
		// A patient with no document has never booked; nothing to sweep.
		return nil
	}

	now := s.now()
	for _, entry := range pat.Appointments.Upcoming {
		_, end, err := timeutil.SlotWindow(entry.Date, entry.Time)
		if err != nil {
			utils.GetLogger().Warn("skipping unparseable patient appointment entry",
				zap.String("appointmentId", entry.AppointmentID), zap.Error(err))
			continue
		}
		if !end.Before(now) {
			continue
		}

		moved := entry
		moved.Status = models.AppointmentMissed
		if err := s.Patients.MoveToPrevious(pat.ID, entry.AppointmentID, moved); err != nil {
			return fmt.Errorf("failed to migrate appointment %s: %w", entry.AppointmentID, err)
		}
		if err := s.Appointments.SetStatus(entry.AppointmentID, models.AppointmentMissed); err != nil {
			// The patient-side move already happened; log and keep going so
			// one bad record does not wedge the sweep.
			utils.GetLogger().Warn("failed to mark appointment missed",
				zap.String("appointmentId", entry.AppointmentID), zap.Error(err))
		}
	}
	return nil
}

// SweepAll walks every doctor and patient. Individual failures are logged
// and skipped so the periodic task always covers the full set.
func (s *DefaultLifecycleService) SweepAll() error {
	doctorIDs, err := s.Doctors.ListUserIDs()
	if err != nil {
		return fmt.Errorf("failed to list doctors for sweep: %w", err)
	}
	for _, id := range doctorIDs {
		if err := s.SweepDoctor(id); err != nil {
			utils.GetLogger().Warn("doctor sweep failed", zap.String("userId", id), zap.Error(err))
		}
	}

	patientIDs, err := s.Patients.ListUserIDs()
	if err != nil {
		return fmt.Errorf("failed to list patients for sweep: %w", err)
	}
	for _, id := range patientIDs {
		if err := s.SweepPatient(id); err != nil {
			utils.GetLogger().Warn("patient sweep failed", zap.String("userId", id), zap.Error(err))
		}
	}
	return nil
}
