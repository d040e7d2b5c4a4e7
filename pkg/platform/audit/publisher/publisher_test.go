package publisher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sybilguard/pkg/domain"
	audit "sybilguard/pkg/platform/audit"
	"sybilguard/pkg/platform/audit/store/memory"
)

// gatedStore holds every Append until release is closed. entered receives
// once per Append so tests can wait for the worker to pick an event up.
type gatedStore struct {
	*memory.InMemoryStore
	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		InMemoryStore: memory.NewInMemoryStore(),
		entered:       make(chan struct{}, 16),
		release:       make(chan struct{}),
	}
}

func (s *gatedStore) Append(ctx context.Context, event audit.Event) error {
	s.entered <- struct{}{}
	<-s.release
	return s.InMemoryStore.Append(ctx, event)
}

type failingStore struct {
	*memory.InMemoryStore
	err error
}

func (s failingStore) Append(context.Context, audit.Event) error {
	return s.err
}

func actions(events []audit.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Action)
	}
	return out
}

func TestIdentityTrailWritesThrough(t *testing.T) {
	ctx := context.Background()
	pub := NewPublisher(memory.NewInMemoryStore())
	defer pub.Close()

	flaggedAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	trail := []audit.Event{
		{Subject: "0xabc", Action: string(audit.EventIdentityAnalyzed)},
		{Subject: "0xabc", Action: string(audit.EventIdentitySuspected), Decision: "suspected"},
		{Subject: "0xabc", Action: string(audit.EventIdentityVerifiedManually), ActorID: "ops@example.com", Timestamp: flaggedAt},
	}
	for _, ev := range trail {
		require.NoError(t, pub.Emit(ctx, ev))
	}
	require.NoError(t, pub.Emit(ctx, audit.Event{Subject: "0xdef", Action: string(audit.EventIdentityAnalyzed)}))

	events, err := pub.List(ctx, "0xabc")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{
		string(audit.EventIdentityAnalyzed),
		string(audit.EventIdentitySuspected),
		string(audit.EventIdentityVerifiedManually),
	}, actions(events))

	assert.Equal(t, audit.CategoryOperations, events[0].Category)
	assert.Equal(t, audit.CategorySecurity, events[1].Category)
	assert.Equal(t, audit.CategoryCompliance, events[2].Category)

	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, flaggedAt, events[2].Timestamp)
}

func TestSyncEmitReturnsStoreError(t *testing.T) {
	storeErr := errors.New("audit table locked")
	pub := NewPublisher(failingStore{InMemoryStore: memory.NewInMemoryStore(), err: storeErr})

	err := pub.Emit(context.Background(), audit.Event{Subject: "0xabc", Action: string(audit.EventIdentityAnalyzed)})
	assert.ErrorIs(t, err, storeErr)
}

func TestCloseDrainsClusterEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(32))

	seeds := make([]id.IdentityID, 5)
	for i := range seeds {
		seeds[i] = id.IdentityID(fmt.Sprintf("0xseed%d", i))
		require.NoError(t, pub.Emit(ctx, audit.Event{
			Subject:  seeds[i],
			Action:   string(audit.EventSybilClusterDetected),
			Metadata: map[string]string{"members": fmt.Sprintf("%s,0xpeer%d", seeds[i], i)},
		}))
	}
	pub.Close()

	for i, seed := range seeds {
		events, err := store.ListBySubject(ctx, seed)
		require.NoError(t, err)
		require.Len(t, events, 1, "seed %s", seed)
		assert.Equal(t, audit.CategorySecurity, events[0].Category)
		assert.Equal(t, fmt.Sprintf("%s,0xpeer%d", seed, i), events[0].Metadata["members"])
	}
}

func TestSaturatedBufferRejectsEvents(t *testing.T) {
	ctx := context.Background()
	store := newGatedStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))

	emit := func(ctx context.Context, action audit.AuditEvent) error {
		return pub.Emit(ctx, audit.Event{Subject: "0xabc", Action: string(action)})
	}

	// worker holds the first event in Append, the second fills the buffer
	require.NoError(t, emit(ctx, audit.EventIdentityAnalyzed))
	<-store.entered
	require.NoError(t, emit(ctx, audit.EventIdentitySuspected))

	assert.ErrorIs(t, emit(ctx, audit.EventIdentityFlaggedManually), ErrBufferFull)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, emit(canceled, audit.EventIdentityFlaggedManually), context.Canceled)

	close(store.release)
	pub.Close()

	events, err := store.ListBySubject(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []string{
		string(audit.EventIdentityAnalyzed),
		string(audit.EventIdentitySuspected),
	}, actions(events))
}

func TestEmitAfterCloseWritesThrough(t *testing.T) {
	storeErr := errors.New("audit table locked")
	pub := NewPublisher(failingStore{InMemoryStore: memory.NewInMemoryStore(), err: storeErr}, WithAsyncBuffer(4))
	pub.Close()
	pub.Close()

	err := pub.Emit(context.Background(), audit.Event{Subject: "0xabc", Action: string(audit.EventHoneypotInitialized)})
	assert.ErrorIs(t, err, storeErr)
}
