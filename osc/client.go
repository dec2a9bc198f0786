package osc

import (
	"fmt"

	gosc "github.com/hypebeast/go-osc/osc"
)

// Client sends messages as OSC packets over UDP.
type Client struct {
	c *gosc.Client
}

var _ Sender = &Client{}

// NewClient creates a Client for host:port. No connection is made until
// the first Send.
func NewClient(host string, port int) *Client {
	return &Client{c: gosc.NewClient(host, port)}
}

func encode(m Message) (*gosc.Message, error) {
	msg := gosc.NewMessage(m.Address)
	for i, arg := range m.Args {
		switch v := arg.(type) {
		case float32, int32:
			msg.Append(v)
		default:
			return nil, fmt.Errorf("%s: unsupported argument %d type %T", m.Address, i, arg)
		}
	}
	return msg, nil
}

// Send implements Sender.
func (c *Client) Send(m Message) error {
	msg, err := encode(m)
	if err != nil {
		return err
	}
	return c.c.Send(msg)
}
