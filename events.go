package disburse

import (
	"github.com/tendermint/tendermint/libs/log"
)

// EventSink records human readable audit lines for successful operations.
// Recording is append only and must never fail the calling operation.
type EventSink interface {
	Record(message string)
}

// EventLog is an in memory EventSink that keeps all recorded lines in order.
type EventLog struct {
	lines []string
}

var _ EventSink = (*EventLog)(nil)

// Record appends a line.
func (l *EventLog) Record(message string) {
	l.lines = append(l.lines, message)
}

// Lines returns a copy of all recorded lines.
func (l *EventLog) Lines() []string {
	if len(l.lines) == 0 {
		return nil
	}
	cpy := make([]string, len(l.lines))
	copy(cpy, l.lines)
	return cpy
}

// LogSink writes every recorded line to a logger.
type LogSink struct {
	logger log.Logger
}

var _ EventSink = LogSink{}

// NewLogSink returns a sink writing audit lines as info entries.
func NewLogSink(logger log.Logger) LogSink {
	if logger == nil {
		logger = DefaultLogger
	}
	return LogSink{logger: logger.With("module", "audit")}
}

// Record logs the message.
func (s LogSink) Record(message string) {
	s.logger.Info(message)
}

// MultiSink forwards every line to all sinks, in order.
type MultiSink []EventSink

var _ EventSink = MultiSink(nil)

// Record forwards message to all non nil sinks.
func (m MultiSink) Record(message string) {
	for _, s := range m {
		if s != nil {
			s.Record(message)
		}
	}
}
