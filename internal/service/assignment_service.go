package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
)

// ApplyAssignmentRequest carries one substitution decision.
type ApplyAssignmentRequest struct {
	Date                string `json:"date" validate:"required"`
	Period              int    `json:"period" validate:"required,min=1"`
	AbsentTeacherID     string `json:"absentTeacherId" validate:"required"`
	SubstituteTeacherID string `json:"substituteTeacherId" validate:"required"`
	ClassName           string `json:"className" validate:"required"`
}

// ApplyAssignmentResult reports the created entry. Extracted marks a
// substitute pulled out of a support placement; the flag only affects
// how the caller labels the action.
type ApplyAssignmentResult struct {
	Entry     models.SubLogEntry `json:"entry"`
	Extracted bool               `json:"extracted"`
}

// AssignmentService applies substitution decisions and rolls them back.
type AssignmentService struct {
	store     *store.Store
	sync      statePersister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(st *store.Store, sync statePersister, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{store: st, sync: sync, validator: validate, logger: logger}
}

// Apply increments both teachers' counters and appends the log entry.
// Validation failures and unknown teachers reject with no state change.
func (s *AssignmentService) Apply(ctx context.Context, req ApplyAssignmentRequest) (*ApplyAssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "incomplete substitution details")
	}
	date, err := models.ParseSchoolDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	entry, err := s.store.RecordAssignment(models.SubLogEntry{
		Date:                 req.Date,
		Period:               req.Period,
		ClassName:            req.ClassName,
		AbsentTeacherRef:     models.TeacherRef{ID: req.AbsentTeacherID},
		SubstituteTeacherRef: models.TeacherRef{ID: req.SubstituteTeacherID},
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTeacherNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		case errors.Is(err, store.ErrSameTeacher):
			return nil, appErrors.Clone(appErrors.ErrValidation, "absent and substitute teacher must differ")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record assignment")
		}
	}

	extracted := false
	if substitute, ok := s.store.Get(req.SubstituteTeacherID); ok {
		if detail, hasSlot := substitute.DetailAt(models.Weekday(date), req.Period); hasSlot {
			extracted = detail.IsSupport
		}
	}

	if s.sync != nil {
		s.sync.Persist(ctx)
	}
	s.logger.Info("substitution arranged",
		zap.String("date", req.Date),
		zap.Int("period", req.Period),
		zap.String("class", req.ClassName),
		zap.String("absent", entry.AbsentTeacherRef.Name),
		zap.String("substitute", entry.SubstituteTeacherRef.Name),
		zap.Bool("extracted", extracted))

	return &ApplyAssignmentResult{Entry: entry, Extracted: extracted}, nil
}

// Rollback deletes a log entry and restores both counters, floored at
// zero. A missing entry is reported without touching any state.
func (s *AssignmentService) Rollback(ctx context.Context, entryID string) error {
	entry, err := s.store.RevokeAssignment(entryID)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "log entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke assignment")
	}

	if s.sync != nil {
		s.sync.Persist(ctx)
	}
	s.logger.Info("substitution revoked",
		zap.String("date", entry.Date),
		zap.Int("period", entry.Period),
		zap.String("class", entry.ClassName))
	return nil
}

// DailyLog returns the entries for one date, period ascending.
func (s *AssignmentService) DailyLog(date string) []models.SubLogEntry {
	return s.store.EntriesFor(date)
}

// FullLog returns the entire log, newest first.
func (s *AssignmentService) FullLog() []models.SubLogEntry {
	return s.store.AllEntries()
}
