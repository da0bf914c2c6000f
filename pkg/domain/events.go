package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventResolveStart EventType = "resolve_start"
	EventResolveEnd   EventType = "resolve_end"
	EventDiagnostic   EventType = "diagnostic"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	GraphID   string    `json:"graph_id,omitempty"`
}

// ResolveEvent marks the start or the end of a resolution pass.
type ResolveEvent struct {
	EventBase
	Nodes        int           `json:"nodes"`
	Portals      int           `json:"portals,omitempty"`
	VirtualEdges int           `json:"virtual_edges,omitempty"`
	Diagnostics  int           `json:"diagnostics,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
}

// DiagnosticEvent carries one diagnostic as it is produced.
type DiagnosticEvent struct {
	EventBase
	Diagnostic Diagnostic `json:"diagnostic"`
}

// LifecycleHooks defines callbacks for resolver observability.
type LifecycleHooks struct {
	OnResolveStart func(context.Context, *ResolveEvent)
	OnResolveEnd   func(context.Context, *ResolveEvent)
	OnDiagnostic   func(context.Context, *DiagnosticEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnResolveStart: chain(h.OnResolveStart, other.OnResolveStart),
		OnResolveEnd:   chain(h.OnResolveEnd, other.OnResolveEnd),
		OnDiagnostic:   chain(h.OnDiagnostic, other.OnDiagnostic),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
