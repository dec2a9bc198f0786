package osc

import (
	"errors"
	"testing"

	"github.com/mastercactapus/repatcher-osc/repatcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSender struct {
	mock.Mock
}

func (s *mockSender) Send(m Message) error {
	return s.Called(m).Error(0)
}

func TestPublisher_Publish(t *testing.T) {
	s := &mockSender{}
	p := NewPublisher(s)

	ev := repatcher.KnobEvent{Index: 0, Value: 0.5}
	s.On("Send", Map(ev)).Return(nil).Once()
	assert.NoError(t, p.Publish(ev))

	fail := errors.New("network unreachable")
	row := repatcher.PatchRowEvent{Output: 5}
	s.On("Send", Map(row)).Return(fail).Once()
	assert.Equal(t, fail, p.Publish(row))

	s.AssertExpectations(t)
}
