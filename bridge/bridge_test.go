package bridge

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/mastercactapus/repatcher-osc/repatcher"
	"github.com/mastercactapus/repatcher-osc/serialport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mx     sync.Mutex
	events []repatcher.Event
	err    error
	got    chan struct{}
}

func newRecorder() *recorder { return &recorder{got: make(chan struct{}, 100)} }

func (r *recorder) Publish(ev repatcher.Event) error {
	r.mx.Lock()
	r.events = append(r.events, ev)
	err := r.err
	r.mx.Unlock()
	r.got <- struct{}{}
	return err
}

func (r *recorder) Observe(ev repatcher.Event) {}

func (r *recorder) Events() []repatcher.Event {
	r.mx.Lock()
	defer r.mx.Unlock()
	return append([]repatcher.Event(nil), r.events...)
}

func waitFor(t *testing.T, ch chan struct{}, n int) {
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestBridge_Run(t *testing.T) {
	pr, pw := io.Pipe()
	rec := newRecorder()
	b := New(pr, repatcher.NewDecoder(), rec, WithObserver(rec))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()

	go pw.Write([]byte{0x02, 0xff, 0x07, 0x13, 0x05})
	waitFor(t, rec.got, 2)
	assert.Equal(t, []repatcher.Event{
		repatcher.KnobEvent{Index: 2, Value: 1},
		repatcher.PatchRowEvent{Output: 1, Inputs: [6]bool{true, true, false, false, true, false}},
	}, rec.Events())

	cancel()
	select {
	case err := <-errCh:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBridge_SourceError(t *testing.T) {
	pr, pw := io.Pipe()
	rec := newRecorder()
	b := New(pr, repatcher.NewDecoder(), rec)

	fail := errors.New("device gone")
	go func() {
		pw.Write([]byte{0x00, 0x10})
		pw.CloseWithError(fail)
	}()

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fail))
	assert.Len(t, rec.Events(), 1)
}

func TestBridge_PublishErrorContinues(t *testing.T) {
	pr, pw := io.Pipe()
	rec := newRecorder()
	rec.err = errors.New("connection refused")
	b := New(pr, repatcher.NewDecoder(), rec)

	go func() {
		pw.Write([]byte{0x00, 0x01, 0x01, 0x02, 0x0b, 0x3f})
		pw.Close()
	}()

	err := b.Run(context.Background())
	assert.True(t, errors.Is(err, io.EOF))
	assert.Len(t, rec.Events(), 3)
}

func TestBridge_CancelIdleSerial(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("no pty available:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	src, err := serialport.Open(serialport.Config{Name: tty.Name()})
	require.NoError(t, err)

	rec := newRecorder()
	b := New(src, repatcher.NewDecoder(), rec)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()

	_, err = ptmx.Write([]byte{0x01, 0x80})
	require.NoError(t, err)
	waitFor(t, rec.got, 1)

	// leave a selector pending, then go quiet
	_, err = ptmx.Write([]byte{0x06})
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked after cancel on idle device")
	}
	assert.Equal(t, []repatcher.Event{repatcher.KnobEvent{Index: 1, Value: 128.0 / 255}}, rec.Events())
}
