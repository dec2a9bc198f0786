package monitor

import (
	"github.com/mastercactapus/repatcher-osc/osc"
	"github.com/mastercactapus/repatcher-osc/repatcher"
)

// State is the last known position of every control on the panel.
type State struct {
	Knobs   [repatcher.NumKnobs]float64                     `json:"knobs"`
	Outputs [repatcher.NumOutputs][repatcher.NumInputs]bool `json:"outputs"`
}

func (s *State) apply(ev repatcher.Event) {
	switch e := ev.(type) {
	case repatcher.KnobEvent:
		s.Knobs[e.Index] = e.Value
	case repatcher.PatchRowEvent:
		s.Outputs[e.Output] = e.Inputs
	}
}

// controlMessage is the JSON form of an event sent to stream clients.
type controlMessage struct {
	Type    string `json:"type"`
	Index   int    `json:"index"`
	Address string `json:"address"`

	// Value is set for every knob, including one at zero.
	Value  *float64 `json:"value,omitempty"`
	Inputs []int    `json:"inputs,omitempty"`
}

func newControlMessage(ev repatcher.Event) controlMessage {
	msg := controlMessage{Address: osc.Map(ev).Address}
	switch e := ev.(type) {
	case repatcher.KnobEvent:
		msg.Type = "knob"
		msg.Index = e.Index
		val := e.Value
		msg.Value = &val
	case repatcher.PatchRowEvent:
		msg.Type = "output"
		msg.Index = e.Output
		msg.Inputs = make([]int, len(e.Inputs))
		for i, v := range e.Inputs {
			if v {
				msg.Inputs[i] = 1
			}
		}
	}
	return msg
}
