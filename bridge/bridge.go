// Package bridge runs the read, decode and publish loop between the
// device and the network.
package bridge

import (
	"context"
	"fmt"
	"io"

	"github.com/mastercactapus/repatcher-osc/logging"
	"github.com/mastercactapus/repatcher-osc/metrics"
	"github.com/mastercactapus/repatcher-osc/repatcher"
	"github.com/sirupsen/logrus"
)

// An EventPublisher delivers a single event.
type EventPublisher interface {
	Publish(repatcher.Event) error
}

// An Observer is notified of every event after it is published.
// Observe must not block.
type Observer interface {
	Observe(repatcher.Event)
}

// Bridge owns a device connection and its decoder state.
type Bridge struct {
	src io.ReadCloser
	r   *repatcher.Reader
	pub EventPublisher

	observers []Observer
	tracker   metrics.DecoderTracker
	log       *logrus.Entry
}

// An Option configures a Bridge.
type Option func(*Bridge)

// WithObserver adds an observer.
func WithObserver(o Observer) Option {
	return func(b *Bridge) { b.observers = append(b.observers, o) }
}

// New creates a Bridge reading from src. The Bridge closes src when Run
// returns.
func New(src io.ReadCloser, dec repatcher.FrameDecoder, pub EventPublisher, opts ...Option) *Bridge {
	b := &Bridge{
		src: src,
		r:   repatcher.NewReader(src, dec),
		pub: pub,
		log: logging.New("bridge"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run blocks, publishing events until ctx is done or reading from the
// device fails. Cancelling ctx closes the device; a pending read is
// abandoned once it returns, which requires src to time out when idle.
// Any partial frame is dropped.
func (b *Bridge) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.src.Close()
		case <-done:
		}
	}()
	defer b.src.Close()

	for {
		ev, err := b.r.ReadContext(ctx)
		dec := b.r.Decoder()
		b.tracker.Update(dec.Stats())
		if ctx.Err() != nil {
			dec.Reset()
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("read from device: %w", err)
		}

		b.dispatch(ev)
	}
}

func (b *Bridge) dispatch(ev repatcher.Event) {
	err := b.pub.Publish(ev)
	if err != nil {
		metrics.RecordSendError()
		b.log.WithError(err).Errorf("publish %s", ev)
	} else {
		metrics.RecordSent(ev)
	}

	for _, o := range b.observers {
		o.Observe(ev)
	}
}
