package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "sybilguard/pkg/platform/audit"
	"sybilguard/pkg/platform/audit/store/memory"
)

type published struct {
	key     string
	value   []byte
	headers map[string]string
}

type fakeProducer struct {
	records []published
	err     error
}

func (p *fakeProducer) Publish(_ context.Context, key, value []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.records = append(p.records, published{key: string(key), value: value, headers: headers})
	return nil
}

func testEvent() audit.Event {
	return audit.Event{
		ID:        "evt-1",
		Category:  audit.CategoryCompliance,
		Timestamp: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Subject:   "alice",
		Action:    string(audit.EventIdentityFlaggedManually),
		Reason:    "bot farm",
		ActorID:   "ops@example.com",
		Metadata:  map[string]string{"reasons": "bot farm"},
	}
}

func TestNew_RequiresProducer(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestStore_AppendEncodesEvent(t *testing.T) {
	producer := &fakeProducer{}
	store, err := New(producer)
	require.NoError(t, err)

	require.NoError(t, store.Append(context.Background(), testEvent()))
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, "alice", rec.key)
	assert.Equal(t, "identity_flagged_manually", rec.headers["action"])
	assert.Equal(t, "compliance", rec.headers["category"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.value, &body))
	assert.Equal(t, "evt-1", body["id"])
	assert.Equal(t, "ops@example.com", body["actor_id"])
	assert.Equal(t, "bot farm", body["reason"])
	assert.NotContains(t, body, "decision")
}

func TestStore_ListWithoutMirror(t *testing.T) {
	store, err := New(&fakeProducer{})
	require.NoError(t, err)

	_, err = store.ListBySubject(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrListUnsupported)
}

func TestStore_MirrorServesLists(t *testing.T) {
	mirror := memory.NewInMemoryStore()
	store, err := New(&fakeProducer{}, WithMirror(mirror))
	require.NoError(t, err)

	require.NoError(t, store.Append(context.Background(), testEvent()))

	events, err := store.ListBySubject(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
}

func TestStore_ProducerFailureSkipsMirror(t *testing.T) {
	mirror := memory.NewInMemoryStore()
	store, err := New(&fakeProducer{err: errors.New("broker down")}, WithMirror(mirror))
	require.NoError(t, err)

	require.Error(t, store.Append(context.Background(), testEvent()))

	events, err := mirror.ListBySubject(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, events)
}
