// Package domain defines the business logic for activity sign-ups.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/signup/internal/events"
	"example.com/signup/internal/observability"
)

var (
	// ErrActivityNotFound is returned when no activity carries the requested name.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadyRegistered is returned when the email is already on the roster.
	ErrAlreadyRegistered = errors.New("student is already signed up for this activity")
	// ErrNotRegistered is returned when removing an email that is not on the roster.
	ErrNotRegistered = errors.New("student is not signed up for this activity")
	// ErrActivityFull is returned when the roster has reached max participants.
	ErrActivityFull = errors.New("activity is full")
	// ErrInvalidEmail is returned when the email is empty.
	ErrInvalidEmail = errors.New("email is required")
)

// Directory captures the activity store operations. Register and Unregister
// must check and mutate the roster atomically and return the updated record.
type Directory interface {
	List(ctx context.Context) (map[string]Activity, error)
	Get(ctx context.Context, name string) (*Activity, error)
	Register(ctx context.Context, name, email string) (Activity, error)
	Unregister(ctx context.Context, name, email string) (Activity, error)
}

// EventRecorder receives roster changes after they have been applied.
type EventRecorder interface {
	Record(ctx context.Context, event events.RosterChanged)
}

// NoopRecorder discards events.
type NoopRecorder struct{}

// Record implements EventRecorder.
func (NoopRecorder) Record(context.Context, events.RosterChanged) {}

// Service orchestrates sign-up workflows.
type Service struct {
	directory Directory
	recorder  EventRecorder
	now       func() time.Time
}

// NewService constructs a Service. A nil recorder discards events.
func NewService(directory Directory, recorder EventRecorder) *Service {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	return &Service{
		directory: directory,
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListActivities returns a snapshot of every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) (map[string]Activity, error) {
	return s.directory.List(ctx)
}

// GetActivity fetches a single activity by name.
func (s *Service) GetActivity(ctx context.Context, name string) (*Activity, error) {
	activity, err := s.directory.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Signup adds email to the named activity and returns the confirmation message.
func (s *Service) Signup(ctx context.Context, name, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		observability.RecordRejection(observability.OperationSignup, ErrorCode(ErrInvalidEmail))
		return "", ErrInvalidEmail
	}

	activity, err := s.directory.Register(ctx, name, email)
	if err != nil {
		observability.RecordRejection(observability.OperationSignup, ErrorCode(err))
		return "", err
	}

	observability.RecordRegistration(activity.Name, len(activity.Participants))
	s.recorder.Record(ctx, s.newEvent(events.TypeParticipantRegistered, activity, email))
	return fmt.Sprintf("Signed up %s for %s", email, activity.Name), nil
}

// Unregister removes email from the named activity and returns the confirmation message.
func (s *Service) Unregister(ctx context.Context, name, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		observability.RecordRejection(observability.OperationUnregister, ErrorCode(ErrInvalidEmail))
		return "", ErrInvalidEmail
	}

	activity, err := s.directory.Unregister(ctx, name, email)
	if err != nil {
		observability.RecordRejection(observability.OperationUnregister, ErrorCode(err))
		return "", err
	}

	observability.RecordUnregistration(activity.Name, len(activity.Participants))
	s.recorder.Record(ctx, s.newEvent(events.TypeParticipantUnregistered, activity, email))
	return fmt.Sprintf("Removed %s from %s", email, activity.Name), nil
}

// PublishRosterGauges sets the participant gauge for every activity.
func (s *Service) PublishRosterGauges(ctx context.Context) error {
	activities, err := s.directory.List(ctx)
	if err != nil {
		return err
	}
	for name, activity := range activities {
		observability.RecordRosterSize(name, len(activity.Participants))
	}
	return nil
}

func (s *Service) newEvent(eventType string, activity Activity, email string) events.RosterChanged {
	return events.RosterChanged{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		Activity:         activity.Name,
		Email:            email,
		ParticipantCount: len(activity.Participants),
		MaxParticipants:  activity.MaxParticipants,
		OccurredAt:       s.now(),
	}
}

// Error codes shared by rejection metrics and API error bodies.
const (
	CodeNotFound          = "not_found"
	CodeAlreadyRegistered = "already_registered"
	CodeNotRegistered     = "not_registered"
	CodeActivityFull      = "activity_full"
	CodeValidationFailed  = "validation_failed"
	CodeServerError       = "server_error"
)

// ErrorCode maps a domain error to its stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyRegistered):
		return CodeAlreadyRegistered
	case errors.Is(err, ErrNotRegistered):
		return CodeNotRegistered
	case errors.Is(err, ErrActivityFull):
		return CodeActivityFull
	case errors.Is(err, ErrInvalidEmail):
		return CodeValidationFailed
	default:
		return CodeServerError
	}
}
