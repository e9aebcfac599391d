package messaging

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogSink renders messages through a logger. Report lines are printed
// verbatim so the summary keeps its layout.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(msg Message) error {
	switch msg.Kind {
	case KindReport:
		s.logger.Print(msg.Content)
	case KindNotice:
		s.logger.Warn(msg.Content, "from", msg.From)
	default:
		s.logger.Info(msg.Content, "from", msg.From, "kind", msg.Kind)
	}
	return nil
}

// Drain forwards everything received on ch to sink until ctx is done or ch
// is closed.
func Drain(ctx context.Context, ch <-chan Message, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := sink.Publish(msg); err != nil {
				return err
			}
		}
	}
}
