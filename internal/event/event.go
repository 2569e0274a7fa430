package event

import (
	"time"

	"go.uber.org/zap"

	"progresstracker/pkg/circuitbreaker"
)

// routing keys
const (
	ProjectCreated      = "project.created"
	ProjectUpdated      = "project.updated"
	ProjectDeleted      = "project.deleted"
	ProjectBatchUpdated = "project.batch_updated"

	ProgressCreated      = "progress.created"
	ProgressUpdated      = "progress.updated"
	ProgressDeleted      = "progress.deleted"
	ProgressBatchUpdated = "progress.batch_updated"
)

// Event 发布到 MQ 的统一信封
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Publisher is satisfied by *mq.Publisher.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(string, any) error { return nil }

// Emitter wraps a Publisher with the envelope and best-effort delivery:
// failures are logged and never reach the caller.
type Emitter struct {
	pub    Publisher
	logger *zap.Logger
	now    func() time.Time
}

func NewEmitter(pub Publisher, logger *zap.Logger, now func() time.Time) *Emitter {
	if pub == nil {
		pub = Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &Emitter{pub: pub, logger: logger, now: now}
}

func (e *Emitter) Emit(eventType string, data any) {
	evt := Event{Type: eventType, OccurredAt: e.now(), Data: data}
	if err := e.pub.Publish(eventType, evt); err != nil {
		e.logger.Warn("Failed to publish event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

// Guard routes publishes through a circuit breaker so an unreachable broker
// is skipped for the cooldown instead of delaying every mutation.
func Guard(pub Publisher, cb *circuitbreaker.Breaker) Publisher {
	return guarded{pub: pub, cb: cb}
}

type guarded struct {
	pub Publisher
	cb  *circuitbreaker.Breaker
}

func (g guarded) Publish(routingKey string, payload any) error {
	return g.cb.Do(func() error { return g.pub.Publish(routingKey, payload) })
}
