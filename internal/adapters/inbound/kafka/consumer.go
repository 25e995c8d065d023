// Package kafkain consumes externally produced orders (a POS feed) and
// records them through the application facade.
package kafkain

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"customer_service/internal/core/domain"
	"customer_service/internal/ports/inbound"
)

type Consumer struct {
	reader *kafka.Reader
	uc     inbound.CustomerUseCase
	logger *log.Entry
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

func NewConsumer(cfg ConsumerConfig, uc inbound.CustomerUseCase) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return &Consumer{
		reader: r,
		uc:     uc,
		logger: log.WithField("component", "kafka"),
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.WithError(err).Error("fetch error")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		draft, derr := DecodeOrderDraft(msg.Value)
		if derr != nil {
			// Poison pill: commit so it is not redelivered forever.
			c.logger.WithError(derr).WithField("key", string(msg.Key)).Warn("bad message, skip+commit")
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if _, err := c.uc.AddOrder(ctx, draft); err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidDraft) {
				// Unknown customer or rejected draft will not heal on retry.
				c.logger.WithError(err).WithField("customer_id", draft.CustomerID).Warn("order rejected, skip+commit")
				_ = c.reader.CommitMessages(ctx, msg)
				continue
			}
			// Store failure: do NOT commit, so the message is retried.
			c.logger.WithError(err).WithField("customer_id", draft.CustomerID).Error("ingest failed, no commit")
			time.Sleep(1 * time.Second)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.WithError(err).Error("commit error")
		}
	}
}
