package main

import (
	"io"
	"os"

	"github.com/mastercactapus/repatcher-osc/repatcher"
)

type replaySource struct {
	io.Reader
	io.Closer
}

// openReplay plays back events recorded one per line (see repatcher.Parser)
// as if they came from the device using the two-byte frame protocol.
func openReplay(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return replaySource{
		Reader: repatcher.NewBuffer(repatcher.NewParser(f)),
		Closer: f,
	}, nil
}
