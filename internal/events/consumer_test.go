package events

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = append(f.nacked, tag)
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestConsumeLoop(t *testing.T) {
	ack := &fakeAcknowledger{}
	msgs := make(chan amqp.Delivery, 2)
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ok")}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("bad")}
	close(msgs)

	var seen []string
	handler := func(ctx context.Context, body []byte) error {
		seen = append(seen, string(body))
		if string(body) == "bad" {
			return errors.New("boom")
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		consumeLoop(context.Background(), msgs, handler, log.New(io.Discard, "", 0), "test")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume loop did not stop after channel close")
	}

	assert.Equal(t, []string{"ok", "bad"}, seen)
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestConsumeLoop_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)

	done := make(chan struct{})
	go func() {
		consumeLoop(ctx, msgs, func(context.Context, []byte) error { return nil }, log.New(io.Discard, "", 0), "test")
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "consume loop ignored cancellation")
	}
}
