package disbursetest

import "github.com/iov-one/disburse"

// EventRecorder is a mock implementing disburse.EventSink that keeps all
// recorded lines.
type EventRecorder struct {
	Events []string
}

var _ disburse.EventSink = (*EventRecorder)(nil)

func (r *EventRecorder) Record(message string) {
	r.Events = append(r.Events, message)
}

// Reset drops all recorded lines.
func (r *EventRecorder) Reset() {
	r.Events = nil
}
