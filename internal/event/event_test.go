package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"progresstracker/pkg/circuitbreaker"
)

type recorder struct {
	keys     []string
	payloads []any
	err      error
}

func (r *recorder) Publish(key string, payload any) error {
	r.keys = append(r.keys, key)
	r.payloads = append(r.payloads, payload)
	return r.err
}

func TestEmitter_WrapsPayload(t *testing.T) {
	at := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	rec := &recorder{}
	e := NewEmitter(rec, zap.NewNop(), func() time.Time { return at })

	e.Emit(ProjectCreated, map[string]any{"id": 1})

	require.Equal(t, []string{ProjectCreated}, rec.keys)
	evt, ok := rec.payloads[0].(Event)
	require.True(t, ok)
	assert.Equal(t, ProjectCreated, evt.Type)
	assert.Equal(t, at, evt.OccurredAt)
	assert.Equal(t, map[string]any{"id": 1}, evt.Data)
}

func TestEmitter_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &recorder{err: errors.New("broker down")}
	e := NewEmitter(rec, zap.New(core), nil)

	e.Emit(ProgressDeleted, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to publish event", logs.All()[0].Message)
}

func TestEmitter_NilPublisherIsNop(t *testing.T) {
	e := NewEmitter(nil, zap.NewNop(), nil)
	assert.NotPanics(t, func() { e.Emit(ProjectDeleted, 1) })
}

func TestGuard_SkipsBrokerWhileOpen(t *testing.T) {
	rec := &recorder{err: errors.New("broker down")}
	cb := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 1, Cooldown: time.Hour})
	pub := Guard(rec, cb)

	assert.Error(t, pub.Publish(ProjectCreated, nil))
	assert.ErrorIs(t, pub.Publish(ProjectCreated, nil), circuitbreaker.ErrOpen)
	assert.Len(t, rec.keys, 1)
}
