package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
	"github.com/classcover/classcover-api/pkg/export"
)

// Column headers match the import formats, so an exported stats file
// round-trips through the stats importer unchanged.
var (
	statsHeaders    = []string{"姓名", "總缺課", "總代課"}
	templateHeaders = []string{"姓名", "星期(1-5)", "節次(1-9)", "班級(重要)", "科目", "是否入班(是/否)"}
)

// ExportService renders roster state into downloadable artifacts and
// restores full-state backups.
type ExportService struct {
	store  *store.Store
	sync   statePersister
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(st *store.Store, sync statePersister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:  st,
		sync:   sync,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// StatsCSV renders every teacher's counters in roster order.
func (s *ExportService) StatsCSV() ([]byte, error) {
	teachers := s.store.Teachers()
	rows := make([]map[string]string, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, map[string]string{
			statsHeaders[0]: t.Name,
			statsHeaders[1]: strconv.Itoa(t.Absences),
			statsHeaders[2]: strconv.Itoa(t.Substitutions),
		})
	}
	return s.csv.Render(export.Dataset{Headers: statsHeaders, Rows: rows})
}

// TimetableTemplateCSV renders the blank timetable upload format with
// a few sample rows showing the expected values.
func (s *ExportService) TimetableTemplateCSV() ([]byte, error) {
	samples := [][]string{
		{"陳大文", "1", "1", "1A", "中文", "否"},
		{"陳大文", "1", "2", "2B", "英文", "是"},
		{"李小明", "3", "5", "4C", "數學", "否"},
	}
	rows := make([]map[string]string, 0, len(samples))
	for _, sample := range samples {
		row := make(map[string]string, len(templateHeaders))
		for i, header := range templateHeaders {
			row[header] = sample[i]
		}
		rows = append(rows, row)
	}
	return s.csv.Render(export.Dataset{Headers: templateHeaders, Rows: rows})
}

// AnnouncementPDF renders the substitution log of one day as a
// printable notice.
func (s *ExportService) AnnouncementPDF(rawDate string) ([]byte, error) {
	if _, err := models.ParseSchoolDate(rawDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	entries := s.store.EntriesFor(rawDate)
	headers := []string{"Period", "Class", "Absent Teacher", "Substitute Teacher"}
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, map[string]string{
			headers[0]: strconv.Itoa(entry.Period),
			headers[1]: entry.ClassName,
			headers[2]: entry.AbsentTeacherRef.Name,
			headers[3]: entry.SubstituteTeacherRef.Name,
		})
	}
	title := fmt.Sprintf("Substitution Notice %s", rawDate)
	return s.pdf.Render(export.Dataset{Headers: headers, Rows: rows}, title)
}

// BackupJSON serialises the full state for download.
func (s *ExportService) BackupJSON() ([]byte, error) {
	snap := s.store.Snapshot()
	backup := models.BackupFile{
		Teachers:   &snap.Teachers,
		Logs:       &snap.Logs,
		BackupDate: snap.LastUpdated,
	}
	body, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode backup")
	}
	return body, nil
}

// RestoreBackup swaps in the state from a backup file. Files missing
// either top-level collection are rejected without touching state.
func (s *ExportService) RestoreBackup(ctx context.Context, data []byte) error {
	var backup models.BackupFile
	if err := json.Unmarshal(data, &backup); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnprocessableImport.Code, appErrors.ErrUnprocessableImport.Status, "backup file could not be parsed")
	}
	if backup.Teachers == nil || backup.Logs == nil {
		return appErrors.Clone(appErrors.ErrUnprocessableImport, "backup file must contain teachers and logs")
	}

	s.store.Replace(*backup.Teachers, *backup.Logs)
	if s.sync != nil {
		s.sync.Persist(ctx)
	}
	s.logger.Info("backup restored",
		zap.Int("teachers", len(*backup.Teachers)),
		zap.Int("logs", len(*backup.Logs)))
	return nil
}
