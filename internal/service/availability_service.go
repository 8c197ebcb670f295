package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
)

// AvailabilityService computes the ranked substitute candidate list
// for a slot. It is a pure read over the session state: callers pick a
// candidate and hand it to AssignmentService unmodified.
type AvailabilityService struct {
	store        *store.Store
	timetable    *TimetableService
	coreSubjects []string
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService. The core
// subject keywords identify teachers with strong content fit; matching
// is case-insensitive substring.
func NewAvailabilityService(st *store.Store, timetable *TimetableService, coreSubjects []string, metrics *MetricsService, logger *zap.Logger) *AvailabilityService {
	upper := make([]string, 0, len(coreSubjects))
	for _, subj := range coreSubjects {
		trimmed := strings.ToUpper(strings.TrimSpace(subj))
		if trimmed != "" {
			upper = append(upper, trimmed)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		store:        st,
		timetable:    timetable,
		coreSubjects: upper,
		metrics:      metrics,
		logger:       logger,
	}
}

// Resolve returns every eligible substitute for the queried slot in
// priority order. It fails closed: an unset period or absent teacher,
// or an unparseable date, yields an empty list.
func (s *AvailabilityService) Resolve(_ context.Context, query models.ArrangeQuery) []models.Candidate {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveResolve(time.Since(start))
		}
	}()

	if query.Period == 0 || query.AbsentTeacherID == "" {
		return []models.Candidate{}
	}
	date, err := models.ParseSchoolDate(query.Date)
	if err != nil {
		return []models.Candidate{}
	}
	weekday := models.Weekday(date)
	targetClass := strings.ToUpper(strings.TrimSpace(query.ClassName))

	candidates := make([]models.Candidate, 0)
	for _, t := range s.store.Teachers() {
		if t.ID == query.AbsentTeacherID {
			continue
		}

		actualFree := subtract(
			s.timetable.FreePeriodsFor(t, date),
			s.store.PeriodsWhereSubstituting(t.ID, query.Date),
		)

		detail, hasSlot := t.DetailAt(weekday, query.Period)
		isSupport := hasSlot && detail.IsSupport

		if !containsPeriod(actualFree, query.Period) && !isSupport {
			continue
		}

		cand := models.Candidate{
			Teacher:       t,
			ActualFree:    actualFree,
			IsExtractable: isSupport,
		}
		if hasSlot {
			cand.SupportClass = detail.ClassName
		}
		if targetClass != "" && isSupport && strings.ToUpper(strings.TrimSpace(detail.ClassName)) == targetClass {
			cand.IsPriorityTarget = true
		}
		if targetClass != "" {
			cand.IsCoreTeacher, cand.CoreSubject = s.findCoreSubject(t, targetClass)
		}
		candidates = append(candidates, cand)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return s.rankLess(candidates[i], candidates[j])
	})
	return candidates
}

// findCoreSubject scans the teacher's full timetable for a lesson that
// teaches the target class one of the core subjects. The first match
// in slot order supplies the displayed subject name.
func (s *AvailabilityService) findCoreSubject(t models.Teacher, targetClass string) (bool, string) {
	keys := make([]string, 0, len(t.ScheduleDetails))
	for key := range t.ScheduleDetails {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		detail := t.ScheduleDetails[key]
		if strings.ToUpper(strings.TrimSpace(detail.ClassName)) != targetClass || detail.Subject == "" {
			continue
		}
		subject := strings.ToUpper(detail.Subject)
		for _, core := range s.coreSubjects {
			if strings.Contains(subject, core) {
				return true, detail.Subject
			}
		}
	}
	return false, ""
}

// rankLess implements the six-tier ordering policy. The tier order is
// institutional policy and is applied exactly as configured: in-class
// support first, then any extractable support, then core-subject
// teachers of the class, then more remaining free periods, fewer
// substitutions, more absences, and finally collated name order.
func (s *AvailabilityService) rankLess(a, b models.Candidate) bool {
	if a.IsPriorityTarget != b.IsPriorityTarget {
		return a.IsPriorityTarget
	}
	if a.IsExtractable != b.IsExtractable {
		return a.IsExtractable
	}
	if a.IsCoreTeacher != b.IsCoreTeacher {
		return a.IsCoreTeacher
	}
	if len(a.ActualFree) != len(b.ActualFree) {
		return len(a.ActualFree) > len(b.ActualFree)
	}
	if a.Teacher.Substitutions != b.Teacher.Substitutions {
		return a.Teacher.Substitutions < b.Teacher.Substitutions
	}
	if a.Teacher.Absences != b.Teacher.Absences {
		return a.Teacher.Absences > b.Teacher.Absences
	}
	return s.store.CompareNames(a.Teacher.Name, b.Teacher.Name) < 0
}

func subtract(periods, remove []int) []int {
	if len(remove) == 0 {
		return periods
	}
	busy := make(map[int]struct{}, len(remove))
	for _, p := range remove {
		busy[p] = struct{}{}
	}
	out := make([]int, 0, len(periods))
	for _, p := range periods {
		if _, ok := busy[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func containsPeriod(periods []int, period int) bool {
	for _, p := range periods {
		if p == period {
			return true
		}
	}
	return false
}
