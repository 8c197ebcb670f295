package models

import (
	"fmt"
	"time"
)

// DefaultTotalPeriods is the number of teaching slots in a school day.
const DefaultTotalPeriods = 9

// SlotDetail describes what occupies a timetable slot: a normal lesson
// or a support placement the teacher can be extracted from.
type SlotDetail struct {
	ClassName string `json:"className"`
	Subject   string `json:"subject"`
	IsSupport bool   `json:"isSupport"`
}

// Teacher is a roster entry with its weekly timetable and running
// absence/substitution counters. FreePeriods is a per-date projection
// derived from MasterSchedule; for teachers without imported timetable
// data it is maintained by manual toggles instead.
type Teacher struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Absences        int                   `json:"absences"`
	Substitutions   int                   `json:"substitutions"`
	MasterSchedule  map[int][]int         `json:"masterSchedule"`
	ScheduleDetails map[string]SlotDetail `json:"scheduleDetails"`
	FreePeriods     []int                 `json:"freePeriods"`
}

// SlotKey builds the scheduleDetails key for a weekday/period pair.
func SlotKey(weekday, period int) string {
	return fmt.Sprintf("%d-%d", weekday, period)
}

// DetailAt returns the slot detail for a weekday/period, if any.
func (t *Teacher) DetailAt(weekday, period int) (SlotDetail, bool) {
	if t.ScheduleDetails == nil {
		return SlotDetail{}, false
	}
	detail, ok := t.ScheduleDetails[SlotKey(weekday, period)]
	return detail, ok
}

// HasTimetableFor reports whether imported timetable data exists for
// the given weekday.
func (t *Teacher) HasTimetableFor(weekday int) bool {
	if t.MasterSchedule == nil {
		return false
	}
	_, ok := t.MasterSchedule[weekday]
	return ok
}

// SchoolDate is the wire format for dates throughout the API.
const SchoolDate = "2006-01-02"

// Weekday maps a date onto the 1-5 Monday-Friday school week.
// Weekend dates fall outside the timetable and return 0.
func Weekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd < 1 || wd > 5 {
		return 0
	}
	return wd
}

// ParseSchoolDate parses a YYYY-MM-DD date string.
func ParseSchoolDate(raw string) (time.Time, error) {
	return time.Parse(SchoolDate, raw)
}
