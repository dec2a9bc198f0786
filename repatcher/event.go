package repatcher

import "strconv"

const (
	// NumKnobs is the number of knobs on the panel.
	NumKnobs = 6
	// NumOutputs is the number of patch-bay outputs (rows).
	NumOutputs = 6
	// NumInputs is the number of patch-bay inputs (columns).
	NumInputs = 6
)

// An Event is a single decoded control change. It is either a KnobEvent or a
// PatchRowEvent.
type Event interface {
	String() string
	event()
}

// KnobEvent reports the position of one knob.
type KnobEvent struct {
	Index int

	// Value is always in [0, 1].
	Value float64
}

// PatchRowEvent reports which inputs are patched to one output.
type PatchRowEvent struct {
	Output int
	Inputs [NumInputs]bool
}

func (KnobEvent) event()     {}
func (PatchRowEvent) event() {}

func (e KnobEvent) String() string {
	return "knob " + strconv.Itoa(e.Index) + ": " + strconv.FormatFloat(e.Value, 'f', 6, 64)
}

func (e PatchRowEvent) String() string {
	s := "bay " + strconv.Itoa(e.Output) + ": ["
	for i, v := range e.Inputs {
		if i > 0 {
			s += ", "
		}
		if v {
			s += "1"
		} else {
			s += "0"
		}
	}
	return s + "]"
}

// inputsFromMask sets Inputs[k] from bit k of mask.
func inputsFromMask(mask byte) (in [NumInputs]bool) {
	for k := range in {
		in[k] = mask&(1<<uint(k)) != 0
	}
	return in
}
