// Package store holds the in-memory session state: the teacher roster
// and the substitution log. It is the single system of record while the
// process runs; snapshot stores only persist what lives here. All
// mutation goes through one mutex so apply/rollback stay atomic from
// the caller's perspective.
package store

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/classcover/classcover-api/internal/models"
)

// Sentinel errors surfaced by compound mutations.
var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrSameTeacher     = errors.New("absent and substitute teacher are the same")
	ErrEntryNotFound   = errors.New("log entry not found")
)

// Store is the explicit session object passed into resolver and
// mutator code. No ambient globals.
type Store struct {
	mu       sync.RWMutex
	teachers []*models.Teacher
	logs     []models.SubLogEntry // insertion order, newest first
	coll     *collate.Collator
}

// New returns an empty store with a Traditional Chinese collator for
// every name ordering the roster exposes.
func New() *Store {
	return &Store{
		coll: collate.New(language.MustParse("zh-Hant")),
	}
}

// CompareNames orders two display names with the roster collator.
func (s *Store) CompareNames(a, b string) int {
	return s.coll.CompareString(a, b)
}

// Load replaces all state from a snapshot.
func (s *Store) Load(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(snap.Teachers, snap.Logs)
}

// Replace swaps in a full roster and log, used by backup restore.
func (s *Store) Replace(teachers []models.Teacher, logs []models.SubLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(teachers, logs)
}

func (s *Store) replaceLocked(teachers []models.Teacher, logs []models.SubLogEntry) {
	s.teachers = make([]*models.Teacher, 0, len(teachers))
	for i := range teachers {
		t := copyTeacher(teachers[i])
		s.teachers = append(s.teachers, &t)
	}
	s.logs = make([]models.SubLogEntry, len(logs))
	copy(s.logs, logs)
}

// Snapshot returns a deep copy of the current state stamped with now.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := models.Snapshot{
		Teachers:    make([]models.Teacher, 0, len(s.teachers)),
		Logs:        make([]models.SubLogEntry, len(s.logs)),
		LastUpdated: time.Now().UTC(),
	}
	for _, t := range s.teachers {
		snap.Teachers = append(snap.Teachers, copyTeacher(*t))
	}
	copy(snap.Logs, s.logs)
	return snap
}

func copyTeacher(t models.Teacher) models.Teacher {
	cp := t
	if t.MasterSchedule != nil {
		cp.MasterSchedule = make(map[int][]int, len(t.MasterSchedule))
		for day, periods := range t.MasterSchedule {
			cp.MasterSchedule[day] = append([]int(nil), periods...)
		}
	}
	if t.ScheduleDetails != nil {
		cp.ScheduleDetails = make(map[string]models.SlotDetail, len(t.ScheduleDetails))
		for key, detail := range t.ScheduleDetails {
			cp.ScheduleDetails[key] = detail
		}
	}
	cp.FreePeriods = append([]int(nil), t.FreePeriods...)
	return cp
}
