// Package osc publishes rePatcher events as OSC messages.
package osc

import (
	"strconv"

	"github.com/mastercactapus/repatcher-osc/repatcher"
)

// AddressPrefix is prepended to every published address.
const AddressPrefix = "/repatcher"

const (
	knobAddress   = AddressPrefix + "/knob"
	outputAddress = AddressPrefix + "/output"
)

// Message is an addressed OSC message. Args hold float32 or int32 values.
type Message struct {
	Address string
	Args    []interface{}
}

// KnobAddress returns the address used for knob n.
func KnobAddress(n int) string { return knobAddress + strconv.Itoa(n) }

// OutputAddress returns the address used for patch-bay output n.
func OutputAddress(n int) string { return outputAddress + strconv.Itoa(n) }

// Map converts an event to its message.
//
// Knobs carry a single float argument. Patch rows carry six integers, one
// per input in order, 1 when patched and 0 otherwise.
func Map(ev repatcher.Event) Message {
	switch e := ev.(type) {
	case repatcher.KnobEvent:
		return Message{
			Address: KnobAddress(e.Index),
			Args:    []interface{}{float32(e.Value)},
		}
	case repatcher.PatchRowEvent:
		args := make([]interface{}, len(e.Inputs))
		for i, v := range e.Inputs {
			if v {
				args[i] = int32(1)
			} else {
				args[i] = int32(0)
			}
		}
		return Message{Address: OutputAddress(e.Output), Args: args}
	}

	// Event is sealed; only the two kinds above exist
	panic("osc: unknown event type")
}
