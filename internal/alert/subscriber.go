// Package alert consumes low-stock events from JetStream and raises alerts.
package alert

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/abgdnv/wingscafe/pkg/config"
	"github.com/abgdnv/wingscafe/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

// Notifier delivers a low-stock alert.
type Notifier func(ctx context.Context, event events.LowStockEvent)

// LogNotifier writes each alert to logger as a warning.
func LogNotifier(logger *slog.Logger) Notifier {
	return func(ctx context.Context, event events.LowStockEvent) {
		for _, item := range event.Items {
			logger.WarnContext(ctx, "Low stock",
				slog.String("product_id", item.ProductID),
				slog.String("name", item.Name),
				slog.Int("quantity", item.Quantity),
				slog.Int("threshold", event.Threshold))
		}
	}
}

// ackableMsg is the part of jetstream.Msg the handler needs.
type ackableMsg interface {
	Data() []byte
	Ack() error
	Nak() error
}

// Start creates the durable consumer on stream and runs cfg.Workers fetch loops until ctx is done.
func Start(ctx context.Context, js jetstream.JetStream, stream string, cfg config.SubscriberConfig, notify Notifier, logger *slog.Logger) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		FilterSubject: cfg.Subject,
		Durable:       cfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return err
	}
	logger.Info("Low-stock subscriber started", slog.String("stream", stream), slog.String("consumer", cfg.Consumer), slog.Int("workers", cfg.Workers))

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			return runWorker(gCtx, consumer, cfg, notify, logger)
		})
	}
	return g.Wait()
}

// runWorker fetches batches from the consumer until ctx is cancelled.
func runWorker(ctx context.Context, consumer jetstream.Consumer, cfg config.SubscriberConfig, notify Notifier, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(cfg.Batch, jetstream.FetchMaxWait(cfg.Timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				logger.Error("failed to fetch messages", "error", err)
				time.Sleep(cfg.Interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(ctx, msg, notify, logger)
			}
		}
	}
}

// handleMessage decodes one low-stock event, notifies and acks it. Undecodable messages are nacked.
func handleMessage(ctx context.Context, msg ackableMsg, notify Notifier, logger *slog.Logger) {
	if msg == nil {
		logger.Error("received nil message")
		return
	}
	var event events.LowStockEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error("failed to unmarshal message", "error", err)
		if err := msg.Nak(); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	notify(ctx, event)

	if err := msg.Ack(); err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}
