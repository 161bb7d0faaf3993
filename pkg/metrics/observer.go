package metrics

import "time"

// Event is a single measurement emitted by a component.
type Event struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev Event)
}

type Flusher interface {
	Flush() error
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(Event) {}

// Latency builds a duration event in milliseconds.
func Latency(name string, started time.Time, tags map[string]string) Event {
	return Event{
		Name:  name,
		Time:  time.Now(),
		Value: float64(time.Since(started).Milliseconds()),
		Tags:  tags,
	}
}
