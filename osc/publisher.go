package osc

import (
	"github.com/mastercactapus/repatcher-osc/logging"
	"github.com/mastercactapus/repatcher-osc/repatcher"
	"github.com/sirupsen/logrus"
)

// A Sender delivers messages. Delivery is not acknowledged.
type Sender interface {
	Send(Message) error
}

// Publisher maps events to messages and hands them to a Sender.
type Publisher struct {
	s   Sender
	log *logrus.Entry
}

// NewPublisher creates a Publisher sending through s.
func NewPublisher(s Sender) *Publisher {
	return &Publisher{s: s, log: logging.New("osc")}
}

// Publish sends the message for ev. Send errors are returned as-is.
func (p *Publisher) Publish(ev repatcher.Event) error {
	msg := Map(ev)
	p.log.WithField("address", msg.Address).Debug(ev.String())
	return p.s.Send(msg)
}
