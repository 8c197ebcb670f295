package store

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/classcover/classcover-api/internal/models"
)

// RecordAssignment increments the absent teacher's absence counter and
// the substitute's substitution counter, then prepends the log entry.
// Both updates happen under one lock: callers observe either all of
// the assignment or none of it.
func (s *Store) RecordAssignment(entry models.SubLogEntry) (models.SubLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	absent := s.findByID(entry.AbsentTeacherRef.ID)
	substitute := s.findByID(entry.SubstituteTeacherRef.ID)
	if absent == nil || substitute == nil {
		return models.SubLogEntry{}, ErrTeacherNotFound
	}
	if absent.ID == substitute.ID {
		return models.SubLogEntry{}, ErrSameTeacher
	}

	absent.Absences++
	substitute.Substitutions++

	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now()
	entry.AbsentTeacherRef.Name = absent.Name
	entry.SubstituteTeacherRef.Name = substitute.Name

	s.logs = append([]models.SubLogEntry{entry}, s.logs...)
	return entry, nil
}

// RevokeAssignment removes a log entry and decrements the counters of
// every teacher the entry's references resolve to, id first and name
// as the legacy fallback. Counters floor at zero so repeated or stale
// rollbacks cannot go negative.
func (s *Store) RevokeAssignment(entryID string) (models.SubLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.logs {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.SubLogEntry{}, ErrEntryNotFound
	}
	entry := s.logs[idx]

	for _, t := range s.teachers {
		if entry.AbsentTeacherRef.Matches(t) && t.Absences > 0 {
			t.Absences--
		}
		if entry.SubstituteTeacherRef.Matches(t) && t.Substitutions > 0 {
			t.Substitutions--
		}
	}

	s.logs = append(s.logs[:idx], s.logs[idx+1:]...)
	return entry, nil
}

// EntriesFor returns the day's log ordered by period ascending, the
// shape the announcement views display.
func (s *Store) EntriesFor(date string) []models.SubLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SubLogEntry
	for _, e := range s.logs {
		if e.Date == date {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// AllEntries returns the full log in insertion order, newest first.
func (s *Store) AllEntries() []models.SubLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SubLogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// PeriodsCoveredFor lists the periods on date where the teacher is the
// absentee of an already-arranged substitution.
func (s *Store) PeriodsCoveredFor(teacherID, date string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.findByID(teacherID)
	if t == nil {
		return nil
	}
	var periods []int
	for _, e := range s.logs {
		if e.Date == date && e.AbsentTeacherRef.Matches(t) {
			periods = append(periods, e.Period)
		}
	}
	return periods
}

// PeriodsWhereSubstituting lists the periods on date where the teacher
// is already covering for someone else and therefore not actually free.
func (s *Store) PeriodsWhereSubstituting(teacherID, date string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.findByID(teacherID)
	if t == nil {
		return nil
	}
	var periods []int
	for _, e := range s.logs {
		if e.Date == date && e.SubstituteTeacherRef.Matches(t) {
			periods = append(periods, e.Period)
		}
	}
	return periods
}
