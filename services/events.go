// services/events.go - Progression events published after a commit.
package services

// Event types broadcast to connected clients.
const (
	EventLevelUp = "level_up"
	EventTierUp  = "tier_up"
)

// ProgressionEvent is emitted after an atomic unit commits; it is never
// published for rolled-back work.
type ProgressionEvent struct {
	Type   string `json:"type"`
	UserID uint   `json:"user_id"`
	Level  int    `json:"level,omitempty"`
	Tier   string `json:"tier,omitempty"`
}

// Notifier receives committed progression events. Implementations must not
// block the caller.
type Notifier interface {
	Publish(event ProgressionEvent)
}

type nopNotifier struct{}

func (nopNotifier) Publish(ProgressionEvent) {}

// NopNotifier discards all events.
func NopNotifier() Notifier {
	return nopNotifier{}
}
