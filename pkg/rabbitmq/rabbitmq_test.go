package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type mockAcknowledger struct {
	mock.Mock
}

func (m *mockAcknowledger) Ack(multiple bool) error {
	return m.Called(multiple).Error(0)
}

func (m *mockAcknowledger) Nack(multiple, requeue bool) error {
	return m.Called(multiple, requeue).Error(0)
}

func TestPublish_WithoutChannel(t *testing.T) {
	var nilClient *Client
	assert.ErrorIs(t, nilClient.Publish(context.Background(), "order.created", []byte("{}")), ErrChannelUnavailable)

	c := &Client{}
	assert.ErrorIs(t, c.PublishJSON(context.Background(), "order.created", map[string]int{"order_id": 1}), ErrChannelUnavailable)
	assert.ErrorIs(t, c.ConsumeOrderEvents(context.Background(), LogOrderEvent), ErrChannelUnavailable)
}

func TestPublishJSON_MarshalFailure(t *testing.T) {
	c := &Client{}
	err := c.PublishJSON(context.Background(), "order.created", make(chan int))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrChannelUnavailable)
}

func TestLogOrderEvent(t *testing.T) {
	ok := amqp.Delivery{RoutingKey: "order.created", Body: []byte(`{"type":"order.created","order_id":3,"user_id":1,"status":"pending"}`)}
	assert.NoError(t, LogOrderEvent(ok))

	assert.Error(t, LogOrderEvent(amqp.Delivery{Body: []byte(`not json`)}))
	assert.Error(t, LogOrderEvent(amqp.Delivery{Body: []byte(`{"type":"order.created"}`)}))
}

func TestSettle(t *testing.T) {
	acked := new(mockAcknowledger)
	acked.On("Ack", false).Return(nil).Once()
	settleWith(acked, 1, false, nil)
	acked.AssertExpectations(t)

	requeued := new(mockAcknowledger)
	requeued.On("Nack", false, true).Return(nil).Once()
	settleWith(requeued, 2, false, errors.New("boom"))
	requeued.AssertExpectations(t)

	dropped := new(mockAcknowledger)
	dropped.On("Nack", false, false).Return(nil).Once()
	settleWith(dropped, 3, true, errors.New("boom"))
	dropped.AssertExpectations(t)
}
