package messaging

import (
	"time"
)

// Kind tags a message so subscribers can filter what they render.
type Kind string

const (
	KindState  Kind = "state"
	KindFinish Kind = "finish"
	KindReport Kind = "report"
	KindNotice Kind = "notice"
)

// Message is one informational line emitted by the simulation core.
type Message struct {
	From      string    `json:"from"`         // Component that emitted the message
	To        []string  `json:"to,omitempty"` // Subscriber IDs (empty means broadcast)
	Kind      Kind      `json:"kind"`         // What the message is about
	Content   string    `json:"content"`      // Rendered text
	Timestamp time.Time `json:"timestamp"`    // When the message was emitted
}

// Sink accepts messages. The core writes its notices and result reports to
// a Sink and leaves rendering to whoever sits behind it.
type Sink interface {
	Publish(msg Message) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(msg Message) error

func (f SinkFunc) Publish(msg Message) error {
	return f(msg)
}

// Discard drops every message.
var Discard Sink = SinkFunc(func(Message) error { return nil })

// Broker routes messages to subscribers
type Broker interface {
	Sink
	// Subscribe registers a subscriber to receive messages
	Subscribe(id string, ch chan<- Message) error
	// Unsubscribe removes a subscription
	Unsubscribe(id string) error
}

// New builds a message stamped with the current time.
func New(from string, kind Kind, content string) Message {
	return Message{
		From:      from,
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now(),
	}
}
