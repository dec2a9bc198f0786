package repatcher

import (
	"context"
	"io"
)

// chunkSize is how much is requested from the device per read.
const chunkSize = 256

// An EventReader yields events one at a time.
type EventReader interface {
	Read() (Event, error)
}

// Reader pulls bytes from an io.Reader on demand and decodes them.
// Once the underlying reader fails, every later Read returns that error.
type Reader struct {
	r   io.Reader
	dec FrameDecoder

	buf     []byte
	pending []Event
	err     error
}

var _ EventReader = &Reader{}

// NewReader creates a Reader that decodes r with dec.
func NewReader(r io.Reader, dec FrameDecoder) *Reader {
	return &Reader{
		r:   r,
		dec: dec,
		buf: make([]byte, chunkSize),
	}
}

// Read blocks until the next event is decoded or the underlying
// reader returns an error. Events already decoded are returned before
// the error.
func (r *Reader) Read() (Event, error) {
	return r.ReadContext(context.Background())
}

// ReadContext is like Read but gives up with ctx.Err() once ctx is done.
// The context is checked between reads, so r should return periodically
// (zero bytes and a nil error) when the device is idle.
func (r *Reader) ReadContext(ctx context.Context) (Event, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.r.Read(r.buf)
		if n > 0 {
			r.pending = r.dec.Feed(r.buf[:n])
		}
		if err != nil {
			r.err = err
		}
		// a read of zero bytes and no error is not an error; try again
	}

	ev := r.pending[0]
	r.pending = r.pending[1:]
	return ev, nil
}

// Decoder returns the decoder used by r.
func (r *Reader) Decoder() FrameDecoder { return r.dec }
