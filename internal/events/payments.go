package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/unidept/evoting/internal/config"
)

const PaymentSucceeded = "success"

var ErrMalformedEvent = errors.New("malformed payment event")

// PaymentEvent is published by the payments module once the gateway has
// confirmed a dues payment.
type PaymentEvent struct {
	UserID    uint   `json:"user_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type DuesMarker interface {
	MarkDuesPaid(ctx context.Context, userID uint) error
}

// PaymentConsumer flips the dues-paid flag of the paying voter. It
// implements sarama.ConsumerGroupHandler.
type PaymentConsumer struct {
	voters DuesMarker
}

func NewPaymentConsumer(voters DuesMarker) *PaymentConsumer {
	return &PaymentConsumer{
		voters: voters,
	}
}

func (c *PaymentConsumer) Setup(sarama.ConsumerGroupSession) error { return nil }

func (c *PaymentConsumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks a message only once it has been applied. Malformed
// messages are logged and skipped; storage failures end the session so the
// message is redelivered.
func (c *PaymentConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			err := c.Handle(session.Context(), msg.Value)
			if err != nil {
				if !errors.Is(err, ErrMalformedEvent) {
					return fmt.Errorf("c.Handle -> %w", err)
				}
				zap.L().Warn("skipping payment event",
					zap.String("topic", msg.Topic),
					zap.Int32("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
			}

			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (c *PaymentConsumer) Handle(ctx context.Context, payload []byte) error {
	var event PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.UserID == 0 {
		return fmt.Errorf("%w: missing user_id", ErrMalformedEvent)
	}

	if event.Status != PaymentSucceeded {
		zap.L().Debug("ignoring payment event",
			zap.Uint("user_id", event.UserID),
			zap.String("reference", event.Reference),
			zap.String("status", event.Status))
		return nil
	}

	if err := c.voters.MarkDuesPaid(ctx, event.UserID); err != nil {
		return fmt.Errorf("c.voters.MarkDuesPaid -> %w", err)
	}

	return nil
}

func NewConsumerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_0_0_0
	cfg.ClientID = "evoting"
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return cfg
}

// Run consumes the payment topic until ctx is cancelled.
func Run(ctx context.Context, conf *config.KafkaConfig, consumer sarama.ConsumerGroupHandler) error {
	group, err := sarama.NewConsumerGroup(conf.Brokers, conf.GroupID, NewConsumerConfig())
	if err != nil {
		return fmt.Errorf("sarama.NewConsumerGroup -> %w", err)
	}
	defer func() {
		if err := group.Close(); err != nil {
			zap.L().Warn("failed to close consumer group", zap.Error(err))
		}
	}()

	go func() {
		for err := range group.Errors() {
			zap.L().Error("payment consumer error", zap.Error(err))
		}
	}()

	zap.L().Info("consuming payment events",
		zap.Strings("brokers", conf.Brokers),
		zap.String("topic", conf.Topic),
		zap.String("group_id", conf.GroupID))

	for {
		if err := group.Consume(ctx, []string{conf.Topic}, consumer); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("group.Consume -> %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
