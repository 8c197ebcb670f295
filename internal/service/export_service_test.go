package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
)

func newExportFixture(t *testing.T, teachers []models.Teacher, logs []models.SubLogEntry) (*store.Store, *ExportService, *recordingPersister) {
	t.Helper()
	st := store.New()
	st.Load(models.Snapshot{Teachers: teachers, Logs: logs})
	persister := &recordingPersister{}
	return st, NewExportService(st, persister, nil), persister
}

func TestStatsCSVRoundTripsThroughImporter(t *testing.T) {
	st, svc, _ := newExportFixture(t, []models.Teacher{
		{ID: "t1", Name: "陳大文", Absences: 4, Substitutions: 7},
		{ID: "t2", Name: "李小明", Absences: 2},
	}, nil)

	body, err := svc.StatsCSV()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(body), "姓名,總缺課,總代課")
	assert.Contains(t, string(body), "陳大文,4,7")

	// The export is accepted unchanged by the stats importer.
	fresh := store.New()
	timetable := NewTimetableService(fresh, nil, models.DefaultTotalPeriods, nil)
	importer := NewImportService(fresh, timetable, nil, nil)
	summary, err := importer.ImportStats(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Len(t, fresh.Teachers(), len(st.Teachers()))
}

func TestTimetableTemplateMatchesImportFormat(t *testing.T) {
	_, svc, _ := newExportFixture(t, nil, nil)

	body, err := svc.TimetableTemplateCSV()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(body), "姓名,星期(1-5),節次(1-9),班級(重要),科目,是否入班(是/否)")

	fresh := store.New()
	timetable := NewTimetableService(fresh, nil, models.DefaultTotalPeriods, nil)
	importer := NewImportService(fresh, timetable, nil, nil)
	summary, err := importer.ImportTimetable(context.Background(), body, "")
	require.NoError(t, err)
	assert.Zero(t, summary.Skipped)
}

func TestAnnouncementPDF(t *testing.T) {
	_, svc, _ := newExportFixture(t, nil, []models.SubLogEntry{{
		ID:                   "e1",
		Date:                 monday,
		Period:               2,
		ClassName:            "1A",
		AbsentTeacherRef:     models.TeacherRef{ID: "t1", Name: "Teacher One"},
		SubstituteTeacherRef: models.TeacherRef{ID: "t2", Name: "Teacher Two"},
	}})

	body, err := svc.AnnouncementPDF(monday)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	_, err = svc.AnnouncementPDF("not-a-date")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	_, svc, _ := newExportFixture(t, []models.Teacher{
		{ID: "t1", Name: "陳大文", Absences: 4, MasterSchedule: map[int][]int{1: {1, 2}}},
	}, []models.SubLogEntry{{ID: "e1", Date: monday, Period: 2}})

	body, err := svc.BackupJSON()
	require.NoError(t, err)

	var backup models.BackupFile
	require.NoError(t, json.Unmarshal(body, &backup))
	require.NotNil(t, backup.Teachers)
	require.NotNil(t, backup.Logs)
	assert.False(t, backup.BackupDate.IsZero())

	restored, restoreSvc, persister := newExportFixture(t, nil, nil)
	require.NoError(t, restoreSvc.RestoreBackup(context.Background(), body))
	assert.Equal(t, 1, persister.calls)

	teacher, ok := restored.FindByName("陳大文")
	require.True(t, ok)
	assert.Equal(t, 4, teacher.Absences)
	assert.Equal(t, []int{1, 2}, teacher.MasterSchedule[1])
	require.Len(t, restored.AllEntries(), 1)
}

func TestRestoreBackupRejectsMissingCollections(t *testing.T) {
	st, svc, persister := newExportFixture(t, []models.Teacher{{ID: "t1", Name: "陳大文"}}, nil)

	cases := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing teachers", `{"logs": [], "backupDate": "2026-01-05T00:00:00Z"}`},
		{"missing logs", `{"teachers": [], "backupDate": "2026-01-05T00:00:00Z"}`},
		{"empty object", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.RestoreBackup(context.Background(), []byte(tc.body))
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnprocessableImport.Code, appErrors.FromError(err).Code)
		})
	}

	// Existing state untouched by rejected restores.
	assert.Zero(t, persister.calls)
	assert.Len(t, st.Teachers(), 1)
}
