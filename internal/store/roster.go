package store

import (
	"sort"

	"github.com/google/uuid"

	"github.com/classcover/classcover-api/internal/models"
)

// Teachers returns a collation-sorted copy of the roster.
func (s *Store) Teachers() []models.Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		out = append(out, copyTeacher(*t))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.coll.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// Get fetches a teacher copy by id.
func (s *Store) Get(id string) (models.Teacher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.findByID(id); t != nil {
		return copyTeacher(*t), true
	}
	return models.Teacher{}, false
}

// FindByName fetches a teacher copy by exact display name. Name is the
// sole join key the bulk importers merge on.
func (s *Store) FindByName(name string) (models.Teacher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.findByName(name); t != nil {
		return copyTeacher(*t), true
	}
	return models.Teacher{}, false
}

// Add creates a blank teacher. IDs are opaque and never reused.
func (s *Store) Add(name string) models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Teacher{
		ID:              uuid.NewString(),
		Name:            name,
		MasterSchedule:  map[int][]int{},
		ScheduleDetails: map[string]models.SlotDetail{},
		FreePeriods:     []int{},
	}
	s.teachers = append(s.teachers, t)
	return copyTeacher(*t)
}

// Remove deletes a teacher. Log entries keep their name/id snapshots;
// there is no cascade.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.teachers {
		if t.ID == id {
			s.teachers = append(s.teachers[:i], s.teachers[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleFreePeriod flips membership of period in the manual projection.
// Used for teachers or days without imported timetable data.
func (s *Store) ToggleFreePeriod(id string, period int) (models.Teacher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findByID(id)
	if t == nil {
		return models.Teacher{}, false
	}
	for i, p := range t.FreePeriods {
		if p == period {
			t.FreePeriods = append(t.FreePeriods[:i], t.FreePeriods[i+1:]...)
			return copyTeacher(*t), true
		}
	}
	t.FreePeriods = append(t.FreePeriods, period)
	sort.Ints(t.FreePeriods)
	return copyTeacher(*t), true
}

// SetFreePeriods overwrites the free-period projection for a teacher.
func (s *Store) SetFreePeriods(id string, periods []int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findByID(id)
	if t == nil {
		return false
	}
	t.FreePeriods = append([]int(nil), periods...)
	return true
}

// UpsertStats overwrites both counters for a teacher matched by name,
// creating the teacher with an empty timetable when no match exists.
// Reports whether a new teacher was created.
func (s *Store) UpsertStats(name string, absences, substitutions int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.findByName(name); t != nil {
		t.Absences = absences
		t.Substitutions = substitutions
		return false
	}
	s.teachers = append(s.teachers, &models.Teacher{
		ID:              uuid.NewString(),
		Name:            name,
		Absences:        absences,
		Substitutions:   substitutions,
		MasterSchedule:  map[int][]int{},
		ScheduleDetails: map[string]models.SlotDetail{},
		FreePeriods:     []int{},
	})
	return true
}

// UpsertTimetable replaces a teacher's schedule fields wholesale with
// freshly imported data, preserving counters. Unknown names create a
// new teacher. Reports whether a new teacher was created.
func (s *Store) UpsertTimetable(name string, schedule map[int][]int, details map[string]models.SlotDetail) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.findByName(name); t != nil {
		t.MasterSchedule = schedule
		t.ScheduleDetails = details
		return false
	}
	s.teachers = append(s.teachers, &models.Teacher{
		ID:              uuid.NewString(),
		Name:            name,
		MasterSchedule:  schedule,
		ScheduleDetails: details,
		FreePeriods:     []int{},
	})
	return true
}

func (s *Store) findByID(id string) *models.Teacher {
	for _, t := range s.teachers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) findByName(name string) *models.Teacher {
	for _, t := range s.teachers {
		if t.Name == name {
			return t
		}
	}
	return nil
}
