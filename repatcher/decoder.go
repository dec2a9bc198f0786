package repatcher

// A FrameDecoder turns raw device bytes into events.
type FrameDecoder interface {
	// Feed consumes p and returns any events completed by it, in arrival order.
	Feed(p []byte) []Event

	// Reset discards any partially received frame.
	Reset()

	Stats() Stats
}

// Stats are cumulative decoder counters.
type Stats struct {
	Bytes     uint64
	Frames    uint64
	Discarded uint64
}

const (
	knobSelectorMin = 0
	rowSelectorMin  = NumKnobs
	selectorMax     = NumKnobs + NumOutputs - 1
)

// Decoder decodes the two-byte frame protocol: a selector byte followed by
// a single payload byte.
//
//	0..5   knob N, payload is the value (0..255)
//	6..11  output N-6, payload bits 0..5 are inputs 0..5
//
// Any other selector is dropped and decoding resumes at the next byte.
// A Decoder must only be used from one goroutine.
type Decoder struct {
	awaiting bool
	selector byte

	stats Stats
}

var _ FrameDecoder = &Decoder{}

// NewDecoder returns a Decoder with no frame in progress.
func NewDecoder() *Decoder { return &Decoder{} }

func validSelector(b byte) bool { return b <= selectorMax }

// Feed implements FrameDecoder. It never blocks and never fails; a selector
// without its payload is held until the next call.
func (d *Decoder) Feed(p []byte) []Event {
	var events []Event
	for _, b := range p {
		d.stats.Bytes++
		if !d.awaiting {
			if !validSelector(b) {
				d.stats.Discarded++
				continue
			}
			d.selector = b
			d.awaiting = true
			continue
		}

		// first byte wins, whatever it looks like
		events = append(events, decodeFrame(d.selector, b))
		d.awaiting = false
		d.stats.Frames++
	}
	return events
}

func decodeFrame(selector, payload byte) Event {
	if selector < rowSelectorMin {
		return KnobEvent{
			Index: int(selector - knobSelectorMin),
			Value: float64(payload) / 255.0,
		}
	}
	return PatchRowEvent{
		Output: int(selector - rowSelectorMin),
		Inputs: inputsFromMask(payload),
	}
}

// Pending reports whether a selector is waiting for its payload.
func (d *Decoder) Pending() bool { return d.awaiting }

// Reset implements FrameDecoder.
func (d *Decoder) Reset() {
	d.awaiting = false
	d.selector = 0
}

// Stats implements FrameDecoder.
func (d *Decoder) Stats() Stats { return d.stats }
