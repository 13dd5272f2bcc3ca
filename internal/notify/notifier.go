package notify

import (
	"log/slog"

	"submitmgr/internal/dispatcher"
	"submitmgr/pkg/cloudevent"
)

// Destination is a single notification callback target: a URL, an
// optional HMAC signing key, and an optional event type filter (empty
// means all event types).
type Destination struct {
	URL        string
	SigningKey string
	Events     []string
}

// filtered reports whether eventType should be sent to this destination.
func (d Destination) filtered(eventType string) bool {
	if len(d.Events) == 0 {
		return true
	}
	for _, et := range d.Events {
		if et == eventType {
			return true
		}
	}
	return false
}

// Notifier dispatches a submission lifecycle event to a single
// destination via a Dispatcher. Destinations are per-job (the job's
// configured callback URL), not global: a Notifier never holds a
// configured destination list of its own, and sending to an empty
// destination is a legitimate, inert no-op — notification is an addition
// on top of the manager's required behavior, not a dependency of it.
type Notifier struct {
	dispatcher dispatcher.Dispatcher
	logger     *slog.Logger
}

// NewNotifier builds a Notifier that dispatches through d.
func NewNotifier(d dispatcher.Dispatcher) *Notifier {
	return &Notifier{
		dispatcher: d,
		logger:     slog.With("component", "notify"),
	}
}

// Send dispatches event to dest if dest declares a URL and its filter
// allows event's type. Dispatch failures are logged, never returned:
// notification is best-effort and must never affect submission outcomes.
func (n *Notifier) Send(event *cloudevent.CloudEvent, dest Destination) {
	if n == nil || n.dispatcher == nil || dest.URL == "" {
		return
	}
	if !dest.filtered(event.Type) {
		return
	}
	if err := n.dispatcher.Dispatch(&dispatcher.Event{
		Payload:     event,
		Destination: dest.URL,
		SigningKey:  dest.SigningKey,
	}); err != nil {
		n.logger.Warn("failed to dispatch submission event", "type", event.Type, "destination", dest.URL, "error", err)
	}
}
