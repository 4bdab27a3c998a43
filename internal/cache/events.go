package cache

import "time"

type EventType string

const (
	EventInit        EventType = "init"
	EventHit         EventType = "hit"
	EventMiss        EventType = "miss"
	EventPut         EventType = "put"
	EventDelete      EventType = "delete"
	EventSweep       EventType = "sweep"
	EventSweepFailed EventType = "sweep_failed"
)

// Event is emitted to every registered Observer. Count is only set for sweeps.
type Event struct {
	Type  EventType `json:"type"`
	Key   string    `json:"key,omitempty"`
	Count int64     `json:"count,omitempty"`
	At    time.Time `json:"at"`
}

// Observer receives engine events synchronously; implementations must not block.
type Observer interface {
	Observe(evt Event)
}

type ObserverFunc func(evt Event)

func (f ObserverFunc) Observe(evt Event) { f(evt) }
