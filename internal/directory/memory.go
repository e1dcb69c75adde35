// Package directory holds the in-memory activity store.
package directory

import (
	"context"
	"sync"

	"example.com/signup/internal/domain"
)

// InMemoryDirectory stores activities for the lifetime of the process.
type InMemoryDirectory struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
}

// NewInMemoryDirectory constructs a directory populated with the given seed.
func NewInMemoryDirectory(seed []domain.Activity) *InMemoryDirectory {
	d := &InMemoryDirectory{
		activities: make(map[string]*domain.Activity, len(seed)),
	}
	for _, activity := range seed {
		clone := activity.Clone()
		d.activities[clone.Name] = &clone
	}
	return d
}

// List implements domain.Directory.
func (d *InMemoryDirectory) List(ctx context.Context) (map[string]domain.Activity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]domain.Activity, len(d.activities))
	for name, activity := range d.activities {
		out[name] = activity.Clone()
	}
	return out, nil
}

// Get returns the activity by name, or nil when it does not exist.
func (d *InMemoryDirectory) Get(ctx context.Context, name string) (*domain.Activity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	activity, ok := d.activities[name]
	if !ok {
		return nil, nil
	}
	clone := activity.Clone()
	return &clone, nil
}

// Register adds email to the roster.
func (d *InMemoryDirectory) Register(ctx context.Context, name, email string) (domain.Activity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	activity, ok := d.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return domain.Activity{}, domain.ErrAlreadyRegistered
	}
	if activity.Full() {
		return domain.Activity{}, domain.ErrActivityFull
	}

	activity.Participants = append(activity.Participants, email)
	return activity.Clone(), nil
}

// Unregister removes email from the roster.
func (d *InMemoryDirectory) Unregister(ctx context.Context, name, email string) (domain.Activity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	activity, ok := d.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}

	idx := -1
	for i, p := range activity.Participants {
		if p == email {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Activity{}, domain.ErrNotRegistered
	}

	activity.Participants = append(activity.Participants[:idx], activity.Participants[idx+1:]...)
	return activity.Clone(), nil
}
