// Package events defines the payloads emitted when an activity roster changes.
package events

import "time"

const (
	// TypeParticipantRegistered marks an email being added to a roster.
	TypeParticipantRegistered = "activity.participant_registered"
	// TypeParticipantUnregistered marks an email being removed from a roster.
	TypeParticipantUnregistered = "activity.participant_unregistered"
)

// RosterChanged captures a single membership change for an activity.
type RosterChanged struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	Activity         string    `json:"activity"`
	Email            string    `json:"email"`
	ParticipantCount int       `json:"participant_count"`
	MaxParticipants  int       `json:"max_participants"`
	OccurredAt       time.Time `json:"occurred_at"`
}
