package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublisher_Publish(t *testing.T) {
	type event struct {
		UserID int64  `json:"userId"`
		Type   string `json:"type"`
	}

	ch := new(ChannelMock)
	ch.On("Publish", Exchange, KeyContentGenerated, false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
		var got event
		if err := json.Unmarshal(p.Body, &got); err != nil {
			return false
		}
		return p.ContentType == "application/json" &&
			p.DeliveryMode == amqp.Persistent &&
			got == event{UserID: 3, Type: "image"}
	})).Return(nil).Once()

	err := NewPublisher(ch).Publish(KeyContentGenerated, event{UserID: 3, Type: "image"})
	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestPublishMessage_Errors(t *testing.T) {
	t.Run("marshal error", func(t *testing.T) {
		ch := new(ChannelMock)
		err := PublishMessage(ch, Exchange, "k", struct {
			Ch chan int `json:"ch"`
		}{Ch: make(chan int)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
		ch.AssertNotCalled(t, "Publish")
	})

	t.Run("channel error", func(t *testing.T) {
		ch := new(ChannelMock)
		ch.On("Publish", Exchange, "k", false, false, mock.Anything).Return(errors.New("channel closed")).Once()

		err := PublishMessage(ch, Exchange, "k", map[string]int{"a": 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "channel closed")
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(KeyStatsDaily, nil))
}
