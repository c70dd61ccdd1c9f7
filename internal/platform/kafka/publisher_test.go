package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fatflowers/storetis/pkg/metrics"
)

func TestSaramaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "storetis.order.created" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		if string(msg.Headers[0].Value) != EventOrderCreated {
			return errors.New("missing event_type header")
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		if ev.Key != "order-1" {
			return errors.New("unexpected key " + ev.Key)
		}
		return nil
	})

	p := NewSaramaPublisher(producer, "storetis", zap.NewNop().Sugar(), metrics.New())
	p.Publish(context.Background(), EventOrderCreated, "order-1", map[string]string{"total": "150000"})
	require.NoError(t, producer.Close())
}

func TestSaramaPublisher_FailureIsLogged(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	core, logs := observer.New(zap.DebugLevel)
	p := NewSaramaPublisher(producer, "", zap.New(core).Sugar(), nil)
	p.Publish(context.Background(), EventOrderConfirmed, "order-2", nil)

	require.Equal(t, 1, logs.FilterMessage("publish event failed").Len())
	require.NoError(t, producer.Close())
}

func TestNoopPublisher(t *testing.T) {
	require.NotPanics(t, func() {
		NoopPublisher(zap.NewNop().Sugar()).Publish(context.Background(), EventOrderCreated, "x", nil)
	})
}
