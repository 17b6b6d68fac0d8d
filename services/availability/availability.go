package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	doctorRepo "medisync/database/repository/doctor"
	"medisync/models"
	"medisync/timeutil"
	"medisync/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityService manages a doctor's published slot calendar.
type AvailabilityService interface {
	// SetAvailability replaces the slot list for each submitted date. Every
	// slot comes back "available", discarding prior busy/booked marks on
	// those dates.
	SetAvailability(doctorUserID string, days []models.DayInput) error
	// MarkSlotsBusy blocks the named slots without touching booked ones.
	// Partial mismatch is reported per date, never as an error.
	MarkSlotsBusy(doctorUserID string, schedules []models.BusyScheduleInput) ([]models.BusyResult, error)
	// GetAvailability returns the doctor's calendar from today onward,
	// slots partitioned by status.
	GetAvailability(doctorUserID string) ([]models.DayView, error)
}

// DefaultAvailabilityService is the production implementation. Cache is
// optional; a nil client disables read caching.
type DefaultAvailabilityService struct {
	Repo  doctorRepo.DoctorRepository
	Cache *redis.Client
}

const cacheTTL = 5 * time.Minute

func cacheKey(doctorUserID string) string {
	return "availability:" + doctorUserID
}

func (s *DefaultAvailabilityService) SetAvailability(doctorUserID string, days []models.DayInput) error {
	doc, err := s.Repo.GetByUserID(doctorUserID)
	if err != nil {
		return fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return utils.NewNotFound("Doctor not found")
	}
	if doc.Status != models.DoctorVerified {
		return utils.NewPermissionDenied("Doctor is not verified yet")
	}

	if len(days) == 0 {
		return utils.NewValidation("availability must not be empty")
	}
	seenDates := make(map[string]bool, len(days))
	for _, day := range days {
		if !timeutil.ValidDate(day.Date) {
			return utils.NewValidation("invalid date %q, expected YYYY-MM-DD", day.Date)
		}
		if seenDates[day.Date] {
			return utils.NewValidation("duplicate date %q", day.Date)
		}
		seenDates[day.Date] = true

		if len(day.Slots) == 0 {
			return utils.NewValidation("no slots submitted for %s", day.Date)
		}
		seenTimes := make(map[string]bool, len(day.Slots))
		for _, slot := range day.Slots {
			if _, _, err := timeutil.ParseSlotLabel(slot.Time); err != nil {
				return utils.NewValidation("invalid slot %q on %s", slot.Time, day.Date)
			}
			if seenTimes[slot.Time] {
				return utils.NewValidation("duplicate slot %q on %s", slot.Time, day.Date)
			}
			seenTimes[slot.Time] = true
		}
	}

	for _, day := range days {
		slots := make([]models.Slot, 0, len(day.Slots))
		for _, slot := range day.Slots {
			slots = append(slots, models.Slot{Time: slot.Time, Status: models.SlotAvailable})
		}
		entry := models.DayAvailability{Date: day.Date, Slots: slots}
		if err := s.Repo.ReplaceDayAvailability(doc.ID, entry); err != nil {
			return fmt.Errorf("failed to store availability for %s: %w", day.Date, err)
		}
	}

	s.invalidate(doctorUserID)
	return nil
}

func (s *DefaultAvailabilityService) MarkSlotsBusy(doctorUserID string, schedules []models.BusyScheduleInput) ([]models.BusyResult, error) {
	doc, err := s.Repo.GetByUserID(doctorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return nil, utils.NewNotFound("Doctor not found")
	}

	byDate := make(map[string][]models.Slot, len(doc.Availability))
	for _, day := range doc.Availability {
		byDate[day.Date] = day.Slots
	}

	results := make([]models.BusyResult, 0, len(schedules))
	for _, sched := range schedules {
		res := models.BusyResult{Date: sched.Date}
		slots, dateKnown := byDate[sched.Date]

		for _, t := range sched.Times {
			if !dateKnown {
				res.NotFound = append(res.NotFound, t)
				continue
			}
			var found *models.Slot
			for i := range slots {
				if slots[i].Time == t {
					found = &slots[i]
					break
				}
			}
			switch {
			case found == nil:
				res.NotFound = append(res.NotFound, t)
			case found.Status == models.SlotBooked:
				res.AlreadyBooked = append(res.AlreadyBooked, t)
			default:
				// The conditional update re-checks the status, so a
				// booking that lands between the snapshot and here
				// still wins.
				ok, err := s.Repo.MarkSlotBusy(doc.ID, sched.Date, t)
				if err != nil {
					return nil, fmt.Errorf("failed to mark slot busy: %w", err)
				}
				if ok {
					res.MarkedBusy = append(res.MarkedBusy, t)
				} else {
					res.AlreadyBooked = append(res.AlreadyBooked, t)
				}
			}
		}
		results = append(results, res)
	}

	s.invalidate(doctorUserID)
	return results, nil
}

func (s *DefaultAvailabilityService) GetAvailability(doctorUserID string) ([]models.DayView, error) {
	if views, ok := s.cached(doctorUserID); ok {
		return views, nil
	}

	doc, err := s.Repo.GetByUserID(doctorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	if doc == nil {
		return nil, utils.NewNotFound("Doctor not found")
	}

	// Dates are stored as YYYY-MM-DD, so string comparison orders them.
	today := timeutil.Today()
	views := make([]models.DayView, 0, len(doc.Availability))
	for _, day := range doc.Availability {
		if day.Date < today {
			continue
		}
		view := models.DayView{Date: day.Date}
		for _, slot := range day.Slots {
			switch slot.Status {
			case models.SlotBusy:
				view.BusySlots = append(view.BusySlots, slot.Time)
			case models.SlotBooked:
				view.BookedSlots = append(view.BookedSlots, slot.Time)
			default:
				view.AvailableSlots = append(view.AvailableSlots, slot.Time)
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Date < views[j].Date })

	s.store(doctorUserID, views)
	return views, nil
}

func (s *DefaultAvailabilityService) cached(doctorUserID string) ([]models.DayView, bool) {
	if s.Cache == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := s.Cache.Get(ctx, cacheKey(doctorUserID)).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var views []models.DayView
	if err := json.Unmarshal([]byte(raw), &views); err != nil {
		return nil, false
	}
	return views, true
}

func (s *DefaultAvailabilityService) store(doctorUserID string, views []models.DayView) {
	if s.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, cacheKey(doctorUserID), raw, cacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("availability cache write failed", zap.Error(err))
	}
}

func (s *DefaultAvailabilityService) invalidate(doctorUserID string) {
	InvalidateCache(s.Cache, doctorUserID)
}

// InvalidateCache drops the cached calendar for a doctor. Booking and
// lifecycle flows call it after any write that changes slot state.
func InvalidateCache(cache *redis.Client, doctorUserID string) {
	if cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := cache.Del(ctx, cacheKey(doctorUserID)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed", zap.Error(err))
	}
}
