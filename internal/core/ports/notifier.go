// internal/core/ports/notifier.go
package ports

import (
	"context"
	"time"

	"oppsync/internal/core/domain"
)

// Notifier es el port para notificaciones de eventos del sweep.
// El orchestrator lo llama con timeout; un notifier lento nunca bloquea el sweep.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close() error
}

// Event representa una notificación de ciclo de vida.
type Event struct {
	Type      EventType
	Timestamp time.Time
	// Source is the source name, or "orchestrator" for sweep events.
	Source   string
	Data     interface{}
	Severity EventSeverity
}

// EventType define los tipos de evento.
type EventType string

const (
	EventTypeSweepStarted     EventType = "sweep.started"
	EventTypeSweepCompleted   EventType = "sweep.completed"
	EventTypeSweepAborted     EventType = "sweep.aborted"
	EventTypeSourceStarted    EventType = "source.started"
	EventTypeSourceCompleted  EventType = "source.completed"
	EventTypeSourceFailed     EventType = "source.failed"
	EventTypeLinkCheckStarted EventType = "links.started"
	EventTypeLinkCheckDone    EventType = "links.completed"
)

// EventSeverity define la severidad de un evento.
type EventSeverity string

const (
	EventSeverityInfo    EventSeverity = "info"
	EventSeverityWarning EventSeverity = "warning"
	EventSeverityError   EventSeverity = "error"
)

// NewEvent crea un evento de nivel info con la hora actual.
func NewEvent(eventType EventType, source string, data interface{}) Event {
	sev := EventSeverityInfo
	switch eventType {
	case EventTypeSourceFailed, EventTypeSweepAborted:
		sev = EventSeverityError
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
		Severity:  sev,
	}
}

// SweepStartedEvent is the payload of EventTypeSweepStarted.
type SweepStartedEvent struct {
	Sources int
}

// SweepCompletedEvent is the payload of EventTypeSweepCompleted.
type SweepCompletedEvent struct {
	Summary *domain.Summary
}

// SourceEvent is the payload of the per-source events.
type SourceEvent struct {
	Kind   domain.SourceKind
	Result domain.SourceResult
}

// LinkCheckEvent is the payload of EventTypeLinkCheckDone.
type LinkCheckEvent struct {
	Report domain.LinkReport
}
