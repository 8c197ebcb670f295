package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
)

// CreateTeacherRequest is the payload for adding a teacher by hand.
type CreateTeacherRequest struct {
	Name string `json:"name" validate:"required"`
}

// RosterService manages the teacher list itself. Schedule and counter
// maintenance live in TimetableService and the importers.
type RosterService struct {
	store    *store.Store
	sync     statePersister
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(st *store.Store, sync statePersister, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: st, sync: sync, validate: validate, logger: logger}
}

// List returns the roster in display order.
func (s *RosterService) List() []models.Teacher {
	return s.store.Teachers()
}

// Get fetches one teacher by id.
func (s *RosterService) Get(id string) (models.Teacher, error) {
	teacher, ok := s.store.Get(id)
	if !ok {
		return models.Teacher{}, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return teacher, nil
}

// Create adds a teacher with a blank timetable. Names must be unique
// because the bulk importers merge on them.
func (s *RosterService) Create(ctx context.Context, req CreateTeacherRequest) (models.Teacher, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return models.Teacher{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "teacher name is required")
	}
	if _, exists := s.store.FindByName(req.Name); exists {
		return models.Teacher{}, appErrors.Clone(appErrors.ErrConflict, "a teacher with this name already exists")
	}

	teacher := s.store.Add(req.Name)
	if s.sync != nil {
		s.sync.Persist(ctx)
	}
	s.logger.Info("teacher added", zap.String("teacher_id", teacher.ID), zap.String("name", teacher.Name))
	return teacher, nil
}

// Delete removes a teacher. Existing log entries keep their snapshots
// of the name, so the history stays readable.
func (s *RosterService) Delete(ctx context.Context, id string) error {
	if !s.store.Remove(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if s.sync != nil {
		s.sync.Persist(ctx)
	}
	s.logger.Info("teacher removed", zap.String("teacher_id", id))
	return nil
}
