package outbox

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestQueueDropsBeyondCapacity(t *testing.T) {
	queue := NewQueue(2)
	before := testutil.ToFloat64(droppedCounter)

	for _, id := range []string{"a", "b", "c"} {
		queue.Record(context.Background(), rosterEvent(id))
	}

	require.Equal(t, 2, queue.Len())
	require.Equal(t, before+1, testutil.ToFloat64(droppedCounter))
}

func TestQueueClaimIsFIFO(t *testing.T) {
	queue := NewQueue(5)
	for _, id := range []string{"a", "b", "c"} {
		queue.Record(context.Background(), rosterEvent(id))
	}

	first := queue.Claim(2)
	require.Len(t, first, 2)
	require.Equal(t, "a", first[0].EventID)
	require.Equal(t, "b", first[1].EventID)

	rest := queue.Claim(0)
	require.Len(t, rest, 1)
	require.Equal(t, "c", rest[0].EventID)

	require.Nil(t, queue.Claim(1))
}

func TestQueueRequeuePutsBatchAtHead(t *testing.T) {
	queue := NewQueue(2)
	for _, id := range []string{"a", "b"} {
		queue.Record(context.Background(), rosterEvent(id))
	}

	claimed := queue.Claim(1)
	queue.Record(context.Background(), rosterEvent("c"))
	queue.Requeue(claimed)

	all := queue.Claim(0)
	require.Len(t, all, 3)
	require.Equal(t, "a", all[0].EventID)
	require.Equal(t, "b", all[1].EventID)
	require.Equal(t, "c", all[2].EventID)
}
