package repatcher

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Parser reads events written one per line in their String form, as the
// bridge logs them at debug level:
//
//	knob 2: 1.000000
//	bay 1: [1, 1, 0, 0, 1, 0]
//
// Blank lines and lines starting with '#' are skipped. A line may carry
// other text before the event, such as a log timestamp.
type Parser struct{ br *bufio.Reader }

var _ EventReader = &Parser{}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

var (
	rxKnob = regexp.MustCompile(`knob ([0-9]+): ([0-9.eE+\-]+)`)
	rxBay  = regexp.MustCompile(`bay ([0-9]+): \[([01](?:, [01]){5})\]`)
)

func (p *Parser) Read() (Event, error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}

		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		return ParseEvent(s)
	}
}

// ParseEvent parses a single event from s.
func ParseEvent(s string) (Event, error) {
	if m := rxBay.FindStringSubmatch(s); m != nil {
		out, err := strconv.Atoi(m[1])
		if err != nil || out >= NumOutputs {
			return nil, fmt.Errorf("invalid output in line: %s", s)
		}
		ev := PatchRowEvent{Output: out}
		for k, v := range strings.Split(m[2], ", ") {
			ev.Inputs[k] = v == "1"
		}
		return ev, nil
	}
	if m := rxKnob.FindStringSubmatch(s); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= NumKnobs {
			return nil, fmt.Errorf("invalid knob in line: %s", s)
		}
		val, err := strconv.ParseFloat(m[2], 64)
		if err != nil || val < 0 || val > 1 {
			return nil, fmt.Errorf("invalid knob value in line: %s", s)
		}
		return KnobEvent{Index: idx, Value: val}, nil
	}

	return nil, errors.New("invalid or unhandled line: " + s)
}
