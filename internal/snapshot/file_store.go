package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/pkg/storage"
)

const (
	teachersFile = models.RecordTeachers + ".json"
	subLogFile   = models.RecordSubLog + ".json"
)

// FileStore keeps the two records as JSON files under the snapshot
// directory. This is the default local device store.
type FileStore struct {
	files *storage.LocalStorage
}

// NewFileStore builds a FileStore on top of local disk storage.
func NewFileStore(files *storage.LocalStorage) *FileStore {
	return &FileStore{files: files}
}

// Save writes both records. The roster is written first so a crash
// between the two writes never leaves log entries without teachers.
func (s *FileStore) Save(_ context.Context, snap models.Snapshot) error {
	teachers, err := json.Marshal(snap.Teachers)
	if err != nil {
		return fmt.Errorf("marshal teachers: %w", err)
	}
	logs, err := json.Marshal(snap.Logs)
	if err != nil {
		return fmt.Errorf("marshal sublog: %w", err)
	}
	if _, err := s.files.Save(teachersFile, teachers); err != nil {
		return err
	}
	if _, err := s.files.Save(subLogFile, logs); err != nil {
		return err
	}
	return nil
}

// Load reads both records; a missing roster file means no saved state.
func (s *FileStore) Load(_ context.Context) (models.Snapshot, bool, error) {
	var snap models.Snapshot

	teachers, err := s.files.Read(teachersFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Snapshot{}, false, nil
		}
		return models.Snapshot{}, false, err
	}
	if err := json.Unmarshal(teachers, &snap.Teachers); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode teachers: %w", err)
	}

	logs, err := s.files.Read(subLogFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return models.Snapshot{}, false, err
		}
	} else if err := json.Unmarshal(logs, &snap.Logs); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode sublog: %w", err)
	}

	return snap, true, nil
}
