package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivityHelpers(t *testing.T) {
	activity := Activity{Name: "Art Club", MaxParticipants: 2, Participants: []string{"amelia@mergington.edu"}}

	require.True(t, activity.HasParticipant("amelia@mergington.edu"))
	require.False(t, activity.HasParticipant("harper@mergington.edu"))
	require.False(t, activity.Full())

	clone := activity.Clone()
	clone.Participants = append(clone.Participants, "harper@mergington.edu")
	clone.Participants[0] = "changed@mergington.edu"

	require.True(t, clone.Full())
	require.Equal(t, []string{"amelia@mergington.edu"}, activity.Participants)
}
