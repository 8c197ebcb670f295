package models

import "time"

// TeacherRef identifies a teacher inside a log entry. ID is preferred;
// Name is the match key for legacy entries created before IDs were
// snapshotted.
type TeacherRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Matches reports whether the reference resolves to the given teacher,
// falling back to a name comparison when the reference carries no ID.
func (r TeacherRef) Matches(t *Teacher) bool {
	if r.ID != "" {
		return r.ID == t.ID
	}
	return r.Name == t.Name
}

// SubLogEntry records one arranged substitution: who was absent, who
// covered, and which class/period/date was covered.
type SubLogEntry struct {
	ID                   string     `json:"id"`
	Date                 string     `json:"date"`
	Period               int        `json:"period"`
	ClassName            string     `json:"className"`
	AbsentTeacherRef     TeacherRef `json:"absentTeacherRef"`
	SubstituteTeacherRef TeacherRef `json:"substituteTeacherRef"`
	Timestamp            time.Time  `json:"timestamp"`
}
