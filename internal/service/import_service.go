package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
)

// supportTokens are the truthy values accepted in the is-support
// column, compared case-insensitively.
var supportTokens = map[string]struct{}{
	"是": {}, "y": {}, "yes": {}, "true": {}, "1": {},
}

// ImportSummary reports a committed batch: accepted rows, silently
// skipped rows and newly created teachers.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Created  int `json:"created"`
}

// ImportService loads external tabular data into the roster. Both
// modes are row-based; bad rows are skipped without aborting the
// batch, while a file that is not valid delimited text rejects with no
// mutation at all.
type ImportService struct {
	store     *store.Store
	timetable *TimetableService
	sync      statePersister
	logger    *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(st *store.Store, timetable *TimetableService, sync statePersister, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{store: st, timetable: timetable, sync: sync, logger: logger}
}

// ImportStats loads `name,absences,substitutions` rows. Counters of
// teachers matched by exact name are overwritten; unknown names create
// a teacher with an empty timetable.
func (s *ImportService) ImportStats(ctx context.Context, data []byte) (*ImportSummary, error) {
	rows, err := parseCSV(data)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	type statsRow struct {
		name          string
		absences      int
		substitutions int
	}
	staged := make([]statsRow, 0, len(rows))
	for i, cols := range rows {
		if i == 0 {
			continue // header
		}
		if len(cols) < 3 {
			summary.Skipped++
			continue
		}
		name := strings.TrimSpace(cols[0])
		if name == "" {
			summary.Skipped++
			continue
		}
		staged = append(staged, statsRow{
			name:          name,
			absences:      atoiOrZero(cols[1]),
			substitutions: atoiOrZero(cols[2]),
		})
	}

	for _, row := range staged {
		if s.store.UpsertStats(row.name, row.absences, row.substitutions) {
			summary.Created++
		}
		summary.Imported++
	}

	if summary.Imported > 0 && s.sync != nil {
		s.sync.Persist(ctx)
	}
	s.logger.Info("stats import committed",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("created", summary.Created))
	return summary, nil
}

// ImportTimetable loads `name,weekday,period,className,subject,
// isSupport` rows grouped per teacher. Matched teachers get their
// schedule fields replaced wholesale; new names create teachers. When
// activeDate is given the free-period projections are refreshed for it
// after the commit.
func (s *ImportService) ImportTimetable(ctx context.Context, data []byte, activeDate string) (*ImportSummary, error) {
	rows, err := parseCSV(data)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	schedules := make(map[string]map[int][]int)
	details := make(map[string]map[string]models.SlotDetail)
	order := make([]string, 0)

	for i, cols := range rows {
		if i == 0 {
			continue // header
		}
		if len(cols) < 3 {
			summary.Skipped++
			continue
		}
		name := strings.TrimSpace(cols[0])
		day, dayErr := strconv.Atoi(strings.TrimSpace(cols[1]))
		period, periodErr := strconv.Atoi(strings.TrimSpace(cols[2]))
		if name == "" || dayErr != nil || periodErr != nil {
			summary.Skipped++
			continue
		}

		className := ""
		if len(cols) > 3 {
			className = strings.ToUpper(strings.TrimSpace(cols[3]))
		}
		subject := ""
		if len(cols) > 4 {
			subject = strings.TrimSpace(cols[4])
		}
		isSupport := false
		if len(cols) > 5 {
			_, isSupport = supportTokens[strings.ToLower(strings.TrimSpace(cols[5]))]
		}

		if _, ok := schedules[name]; !ok {
			schedules[name] = make(map[int][]int)
			details[name] = make(map[string]models.SlotDetail)
			order = append(order, name)
		}
		if !containsPeriod(schedules[name][day], period) {
			schedules[name][day] = append(schedules[name][day], period)
		}
		details[name][models.SlotKey(day, period)] = models.SlotDetail{
			ClassName: className,
			Subject:   subject,
			IsSupport: isSupport,
		}
		summary.Imported++
	}

	for _, name := range order {
		if s.store.UpsertTimetable(name, schedules[name], details[name]) {
			summary.Created++
		}
	}

	if activeDate != "" {
		if _, err := s.timetable.RefreshFreePeriods(ctx, activeDate); err != nil {
			s.logger.Warn("free-period refresh after import failed", zap.Error(err))
		}
	}
	if summary.Imported > 0 && s.sync != nil {
		s.sync.Persist(ctx)
	}
	s.logger.Info("timetable import committed",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("created", summary.Created))
	return summary, nil
}

// parseCSV decodes the raw upload, tolerating a UTF-8 BOM and ragged
// row lengths. A file that is not delimited text at all rejects the
// entire import.
func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnprocessableImport.Code, appErrors.ErrUnprocessableImport.Status, "import file could not be parsed")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnprocessableImport, "import file is empty")
	}
	return rows, nil
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
