package alert

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/wingscafe/pkg/config"
	"github.com/abgdnv/wingscafe/pkg/messaging"
	"github.com/abgdnv/wingscafe/pkg/messaging/events"
	pnats "github.com/abgdnv/wingscafe/pkg/nats"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"golang.org/x/sync/errgroup"
)

const skipIntegrationTests = "WINGSCAFE_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

// SubscriberSuite runs the low-stock subscriber against a real JetStream server.
type SubscriberSuite struct {
	suite.Suite
	ctx           context.Context
	logger        *slog.Logger
	natsContainer *nats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *SubscriberSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var err error

	s.natsContainer, err = nats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)
	s.nc, err = pnats.NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err, "Failed to connect to NATS")

	s.js, err = pnats.NewJetStreamContext(s.nc)
	require.NoError(s.T(), err, "Failed to get JetStream context")
}

func (s *SubscriberSuite) TearDownSuite() {
	if s.nc != nil {
		s.nc.Close()
	}
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.logger.Error("Failed to terminate NATS container", "error", err)
	}
}

func TestSubscriberIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(SubscriberSuite))
}

func (s *SubscriberSuite) TestLowStockEventIsDelivered() {
	// given
	streamName := "WINGSCAFE-" + uuid.NewString()
	consumerName := "ALERTS-" + uuid.NewString()
	_, err := pnats.EnsureStream(s.ctx, s.js, streamName, messaging.StreamSubjects)
	s.Require().NoError(err)
	defer func() { _ = s.js.DeleteStream(context.Background(), streamName) }()

	cfg := config.SubscriberConfig{
		Enabled:  true,
		Subject:  messaging.StockLowSubject,
		Consumer: consumerName,
		Batch:    5,
		Timeout:  200 * time.Millisecond,
		Interval: 200 * time.Millisecond,
		Workers:  2,
	}
	received := make(chan events.LowStockEvent, 1)
	notify := func(_ context.Context, e events.LowStockEvent) { received <- e }

	ctx, cancel := context.WithCancel(s.ctx)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Start(gCtx, s.js, streamName, cfg, notify, s.logger)
	})
	defer func() {
		cancel()
		_ = g.Wait()
	}()

	// the consumer must exist before the event is published
	s.Require().Eventually(func() bool {
		_, err := s.js.Consumer(s.ctx, streamName, consumerName)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	publisher := pnats.NewNatsPublisher(s.js)
	// a sale event on the same stream must not reach the low-stock consumer
	s.Require().NoError(publisher.Publish(s.ctx, events.SaleRecordedEvent{SaleID: "s1", Quantity: 1, TotalPrice: "10.00"}))
	// when
	s.Require().NoError(publisher.Publish(s.ctx, events.LowStockEvent{
		Threshold: 10,
		Items:     []events.LowStockItem{{ProductID: "p1", Name: "Burger", Quantity: 2}},
		Date:      time.Now().UTC(),
	}))

	// then
	select {
	case e := <-received:
		s.Equal(10, e.Threshold)
		s.Require().Len(e.Items, 1)
		s.Equal("p1", e.Items[0].ProductID)
	case <-time.After(5 * time.Second):
		s.Fail("no low-stock event received")
	}

	s.Require().Eventually(func() bool {
		consumer, err := s.js.Consumer(s.ctx, streamName, consumerName)
		if err != nil {
			return false
		}
		info, err := consumer.Info(s.ctx)
		return err == nil && info.NumAckPending == 0 && info.NumPending == 0 && info.Delivered.Consumer == 1
	}, 5*time.Second, 100*time.Millisecond, "low-stock event not acknowledged")
}
