package repatcher

import (
	"bytes"
	"io"
	"math"
)

// AppendFrame appends the two-byte frame for ev to p.
func AppendFrame(p []byte, ev Event) []byte {
	switch e := ev.(type) {
	case KnobEvent:
		return append(p, byte(e.Index), byte(math.Round(e.Value*255)))
	case PatchRowEvent:
		var mask byte
		for k, v := range e.Inputs {
			if v {
				mask |= 1 << uint(k)
			}
		}
		return append(p, byte(rowSelectorMin+e.Output), mask)
	}
	return p
}

// Buffer encodes events from an EventReader back into the two-byte frame
// protocol, e.g. to replay a recorded session through a Decoder.
type Buffer struct {
	er  EventReader
	buf bytes.Buffer
	err error
}

var _ io.Reader = &Buffer{}

func NewBuffer(er EventReader) *Buffer {
	return &Buffer{er: er}
}

func (b *Buffer) Read(p []byte) (int, error) {
	for b.err == nil && b.buf.Len() < len(p) {
		var ev Event
		ev, b.err = b.er.Read()
		if b.err != nil {
			break
		}
		b.buf.Write(AppendFrame(nil, ev))
	}
	if b.buf.Len() > 0 {
		return b.buf.Read(p)
	}
	return 0, b.err
}
