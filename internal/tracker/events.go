package tracker

// EventType identifies a browser signal consumed by the tracking loop.
type EventType string

const (
	// EventNavigated fires when the foreground tab finishes loading a URL.
	EventNavigated EventType = "navigated"
	// EventActivated fires when a different tab becomes the foreground tab.
	EventActivated EventType = "activated"
	// EventIdleChanged fires on system idle state transitions.
	EventIdleChanged EventType = "idle_changed"
	// EventTimerFired is the periodic re-sample tick.
	EventTimerFired EventType = "timer_fired"
)

// Idle states carried by EventIdleChanged.
const (
	IdleStateActive = "active"
	IdleStateIdle   = "idle"
	IdleStateLocked = "locked"
)

// Tab describes the foreground tab at the moment an event fired.
type Tab struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Event is one typed browser signal. Tab is set for navigation and
// activation events; IdleState is set for idle transitions.
type Event struct {
	Type      EventType `json:"type"`
	Tab       *Tab      `json:"tab,omitempty"`
	IdleState string    `json:"idleState,omitempty"`
}
