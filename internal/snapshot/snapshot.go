// Package snapshot implements the persistence boundary: local record
// stores written synchronously on every state change, and the optional
// remote document store written on a debounced delay.
package snapshot

import (
	"context"

	"github.com/classcover/classcover-api/internal/models"
)

// LocalStore persists the two named records (teacher roster and
// substitution log) on the local device.
type LocalStore interface {
	Save(ctx context.Context, snap models.Snapshot) error
	// Load returns the persisted state and whether any was found.
	Load(ctx context.Context) (models.Snapshot, bool, error)
}

// RemoteStore holds one whole-state document under a fixed key.
// Writes are last-write-wins with no conflict detection.
type RemoteStore interface {
	Push(ctx context.Context, snap models.Snapshot) error
	// Pull reads the document once, reporting whether it exists.
	Pull(ctx context.Context) (models.Snapshot, bool, error)
}
