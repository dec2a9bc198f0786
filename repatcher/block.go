package repatcher

// BlockStart marks the beginning of a report from the stock rePatcher sketch.
const BlockStart = 0xc0

// BlockLen is the number of bytes following BlockStart.
const BlockLen = 18

const knobFullScale = 1024.0

// BlockDecoder decodes the framing used by the stock rePatcher Arduino
// sketch: a 0xC0 start byte followed by an 18 byte report of all knobs and
// all patch rows. Bytes outside a report are dropped.
//
// Knobs are sent as six 7-bit pairs (low, high) in reverse knob order,
// followed by six row masks in reverse output order with input 0 as bit 5.
type BlockDecoder struct {
	inBlock bool
	buf     []byte

	stats Stats
}

var _ FrameDecoder = &BlockDecoder{}

func NewBlockDecoder() *BlockDecoder {
	return &BlockDecoder{buf: make([]byte, 0, BlockLen)}
}

// Feed implements FrameDecoder. Each complete report yields six KnobEvents
// followed by six PatchRowEvents.
func (d *BlockDecoder) Feed(p []byte) []Event {
	var events []Event
	for _, b := range p {
		d.stats.Bytes++
		if !d.inBlock {
			if b != BlockStart {
				d.stats.Discarded++
				continue
			}
			d.inBlock = true
			d.buf = d.buf[:0]
			continue
		}

		d.buf = append(d.buf, b)
		if len(d.buf) < BlockLen {
			continue
		}
		events = append(events, decodeBlock(d.buf)...)
		d.stats.Frames++
		d.inBlock = false
		d.buf = d.buf[:0]
	}
	return events
}

func decodeBlock(buf []byte) []Event {
	events := make([]Event, 0, NumKnobs+NumOutputs)
	for i := 0; i < NumKnobs; i++ {
		raw := int(buf[2*i+1])<<7 | int(buf[2*i])
		val := float64(raw) / knobFullScale
		if val > 1 {
			val = 1
		}
		events = append(events, KnobEvent{Index: NumKnobs - 1 - i, Value: val})
	}
	for j := 0; j < NumOutputs; j++ {
		mask := buf[2*NumKnobs+j]
		var row PatchRowEvent
		row.Output = NumOutputs - 1 - j
		for k := range row.Inputs {
			row.Inputs[k] = mask&(1<<uint(NumInputs-1-k)) != 0
		}
		events = append(events, row)
	}
	return events
}

// Reset implements FrameDecoder.
func (d *BlockDecoder) Reset() {
	d.inBlock = false
	d.buf = d.buf[:0]
}

// Stats implements FrameDecoder. Frames counts whole reports.
func (d *BlockDecoder) Stats() Stats { return d.stats }
