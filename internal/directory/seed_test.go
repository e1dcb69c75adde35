package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSeedContainsKnownActivities(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	names := make(map[string]int, len(seed))
	for _, activity := range seed {
		names[activity.Name] = activity.MaxParticipants
		require.LessOrEqual(t, len(activity.Participants), activity.MaxParticipants)
	}
	require.Contains(t, names, "Chess Club")
	require.Contains(t, names, "Programming Class")
	require.Equal(t, 12, names["Chess Club"])
}

func TestParseSeedDedupesParticipants(t *testing.T) {
	seed, err := ParseSeed([]byte(`
activities:
  - name: Art Club
    max_participants: 3
    participants: [a@x.edu, a@x.edu, " b@x.edu ", ""]
`))
	require.NoError(t, err)
	require.Len(t, seed, 1)
	require.Equal(t, []string{"a@x.edu", "b@x.edu"}, seed[0].Participants)
}

func TestParseSeedRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"empty":         `activities: []`,
		"missing name":  "activities:\n  - max_participants: 2\n",
		"zero capacity": "activities:\n  - name: A\n    max_participants: 0\n",
		"over capacity": "activities:\n  - name: A\n    max_participants: 1\n    participants: [a@x.edu, b@x.edu]\n",
		"duplicate":     "activities:\n  - name: A\n    max_participants: 1\n  - name: A\n    max_participants: 1\n",
		"malformed":     "activities: {",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activities:\n  - name: Robotics\n    max_participants: 4\n"), 0o600))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Equal(t, "Robotics", seed[0].Name)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	fallback, err := LoadSeedFile("")
	require.NoError(t, err)
	require.NotEmpty(t, fallback)
}
