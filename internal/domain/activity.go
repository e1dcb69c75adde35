package domain

// Activity is a named school offering with a fixed capacity and a roster of participant emails.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// HasParticipant reports whether email is on the roster.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Full reports whether the roster has reached capacity.
func (a Activity) Full() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Clone returns a copy whose roster does not alias the receiver's.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}
