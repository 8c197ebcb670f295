package models

import "time"

// Snapshot names for the two persisted local records.
const (
	RecordTeachers = "teachers"
	RecordSubLog   = "sublog"
)

// Snapshot is the whole-state document written to the remote store and
// restored at startup. Last write wins; no conflict detection.
type Snapshot struct {
	Teachers    []Teacher     `json:"teachers"`
	Logs        []SubLogEntry `json:"logs"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// BackupFile is the user-facing export/import document. Import fully
// replaces in-memory state; both top-level keys are required.
type BackupFile struct {
	Teachers   *[]Teacher     `json:"teachers"`
	Logs       *[]SubLogEntry `json:"logs"`
	BackupDate time.Time      `json:"backupDate"`
}
