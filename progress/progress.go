package progress

import (
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"
)

// Event is one progress notification of a long-running operation.
type Event struct {
	Current    int
	Total      int
	Percentage float64
	Message    string
}

// NewEvent computes the percentage of current over total.
func NewEvent(current, total int, message string) Event {
	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(current)*10000/float64(total)) / 100
	}
	return Event{Current: current, Total: total, Percentage: percentage, Message: message}
}

// Sink receives progress events. Implementations must not block for long;
// a returned error is logged by the caller and otherwise ignored.
type Sink interface {
	Publish(Event) error
}

type nopSink struct{}

func (nopSink) Publish(Event) error { return nil }

// Nop returns a sink that drops every event.
func Nop() Sink {
	return nopSink{}
}

// Func adapts a function to a Sink.
type Func func(Event) error

func (f Func) Publish(e Event) error {
	return f(e)
}

// Writer prints events as "[current/total] pct% message" lines.
func Writer(w io.Writer) Sink {
	return Func(func(e Event) error {
		_, err := fmt.Fprintf(w, "[%d/%d] %.0f%% %s\n", e.Current, e.Total, e.Percentage, e.Message)
		return err
	})
}

// Logger records events at debug level.
func Logger(logger *zap.Logger) Sink {
	return Func(func(e Event) error {
		logger.Debug("progress",
			zap.Int("current", e.Current),
			zap.Int("total", e.Total),
			zap.Float64("percentage", e.Percentage),
			zap.String("message", e.Message),
		)
		return nil
	})
}

// Multi fans events out to every sink and returns the first error.
func Multi(sinks ...Sink) Sink {
	return Func(func(e Event) error {
		var first error
		for _, sink := range sinks {
			if err := sink.Publish(e); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}

// Notifier publishes to a sink without ever failing or panicking the caller.
type Notifier struct {
	sink   Sink
	logger *zap.Logger
}

func NewNotifier(sink Sink, logger *zap.Logger) Notifier {
	if sink == nil {
		sink = Nop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Notifier{sink: sink, logger: logger}
}

func (n Notifier) Notify(current, total int, message string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("progress sink panicked", zap.Any("panic", r))
		}
	}()
	if err := n.sink.Publish(NewEvent(current, total, message)); err != nil {
		n.logger.Debug("progress sink failed", zap.Error(err))
	}
}
