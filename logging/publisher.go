package logging

import (
	"context"
	"time"
)

// EventType names a structured gameplay or system occurrence.
type EventType string

// Severity orders events for sink filtering.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

const (
	CategoryGameplay  = "gameplay"
	CategoryCombat    = "combat"
	CategoryObjective = "objective"
	CategorySystem    = "system"
)

// EntityRef points at the actor an event concerns.
type EntityRef struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// Event is the unit all sinks consume.
type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Publisher accepts events from the simulation. Implementations must be safe
// to call from the tick loop without blocking it.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// NopPublisher discards everything; the default for tests.
func NopPublisher() Publisher {
	return nopPublisher{}
}

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
