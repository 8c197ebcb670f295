package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
)

// statePersister flushes the session state after a mutation. Satisfied
// by SyncService; nil disables persistence (tests).
type statePersister interface {
	Persist(ctx context.Context)
}

// TimetableService derives and maintains per-date occupancy.
type TimetableService struct {
	store        *store.Store
	sync         statePersister
	totalPeriods int
	logger       *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(st *store.Store, sync statePersister, totalPeriods int, logger *zap.Logger) *TimetableService {
	if totalPeriods <= 0 {
		totalPeriods = models.DefaultTotalPeriods
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{store: st, sync: sync, totalPeriods: totalPeriods, logger: logger}
}

// AllPeriods lists every period of the school day, 1..N.
func (s *TimetableService) AllPeriods() []int {
	periods := make([]int, s.totalPeriods)
	for i := range periods {
		periods[i] = i + 1
	}
	return periods
}

// FreePeriodsFor derives the teacher's free periods on a date. With
// timetable data for that weekday the result is the complement of the
// master schedule; without it the manually maintained projection is
// returned unchanged.
func (s *TimetableService) FreePeriodsFor(t models.Teacher, date time.Time) []int {
	weekday := models.Weekday(date)
	if weekday == 0 || !t.HasTimetableFor(weekday) {
		return append([]int(nil), t.FreePeriods...)
	}
	return s.complement(t.MasterSchedule[weekday])
}

// ToggleManualFree flips a period in the teacher's manual projection.
// Used only for teachers or days outside the imported timetable.
func (s *TimetableService) ToggleManualFree(ctx context.Context, teacherID string, period int) (models.Teacher, error) {
	if period < 1 || period > s.totalPeriods {
		return models.Teacher{}, appErrors.Clone(appErrors.ErrValidation, "period out of range")
	}
	teacher, ok := s.store.ToggleFreePeriod(teacherID, period)
	if !ok {
		return models.Teacher{}, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if s.sync != nil {
		s.sync.Persist(ctx)
	}
	return teacher, nil
}

// RefreshFreePeriods overwrites the projection of every teacher with
// timetable data for the date's weekday. Weekend dates are a no-op.
// Returns the number of teachers refreshed.
func (s *TimetableService) RefreshFreePeriods(ctx context.Context, rawDate string) (int, error) {
	date, err := models.ParseSchoolDate(rawDate)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	weekday := models.Weekday(date)
	if weekday == 0 {
		return 0, nil
	}

	refreshed := 0
	for _, t := range s.store.Teachers() {
		if !t.HasTimetableFor(weekday) {
			continue
		}
		s.store.SetFreePeriods(t.ID, s.complement(t.MasterSchedule[weekday]))
		refreshed++
	}
	if refreshed > 0 && s.sync != nil {
		s.sync.Persist(ctx)
	}
	return refreshed, nil
}

func (s *TimetableService) complement(busy []int) []int {
	occupied := make(map[int]struct{}, len(busy))
	for _, p := range busy {
		occupied[p] = struct{}{}
	}
	free := make([]int, 0, s.totalPeriods)
	for p := 1; p <= s.totalPeriods; p++ {
		if _, ok := occupied[p]; !ok {
			free = append(free, p)
		}
	}
	return free
}
