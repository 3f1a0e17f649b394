package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
	"github.com/niksmo/cloudshop/pkg/retry"
	"github.com/niksmo/cloudshop/pkg/schema"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.EventsPublisher = (*EventsProducer)(nil)

const defaultPublishTimeout = 3 * time.Second

// An EventsProducer publishes [domain.ClientEvent] keyed by product id, so
// the events of one product stay ordered within a partition. A publish with
// all its retries is bounded by the producer timeout.
type EventsProducer struct {
	cl       ProducerClient
	encoder  Encoder
	retry    retry.RetryConfig
	timeout  time.Duration
	opPrefix string
}

func NewEventsProducer(opts ...ProducerOpt) (EventsProducer, error) {
	const op = "NewEventsProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return EventsProducer{}, opErr(err, op)
		}
	}
	if options.cl == nil || options.encoder == nil {
		return EventsProducer{}, opErr(ErrTooFewOpts, op)
	}

	p := EventsProducer{
		cl:       options.cl,
		encoder:  options.encoder,
		timeout:  defaultPublishTimeout,
		opPrefix: "EventsProducer",
	}
	p.retry = retry.RetryConfig{
		MaxAttempts: 3,
		Backoff: retry.CappedBackoff(
			retry.ExponentialBackoff(50*time.Millisecond), time.Second,
		),
		ShouldRetry: kerr.IsRetriable,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			slog.Debug("retrying produce",
				"op", makeOp(p.opPrefix, "Publish"),
				"attempt", attempt, "wait", wait, "err", err,
			)
		},
	}
	return p, nil
}

func (p EventsProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p EventsProducer) Publish(ctx context.Context, e domain.ClientEvent) error {
	const op = "Publish"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(e)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = retry.Do(ctx, p.retry, func() error {
		return p.cl.ProduceSync(ctx, r).FirstErr()
	})
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	slog.Debug("client event published",
		"op", makeOp(p.opPrefix, op),
		"kind", e.Kind,
		"productID", e.ProductID,
	)
	return nil
}

func (p EventsProducer) createRecord(e domain.ClientEvent) (*kgo.Record, error) {
	const op = "createRecord"

	b, err := p.encoder.Encode(clientEventToSchemaV1(e))
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{
		Key:       []byte(e.ProductID),
		Value:     b,
		Timestamp: e.At,
	}, nil
}

func clientEventToSchemaV1(v domain.ClientEvent) (s schema.ClientEventV1) {
	s.Kind = string(v.Kind)
	s.Username = v.Username
	s.ProductID = v.ProductID
	s.SKUID = v.SKUID
	s.Quantity = v.Quantity
	s.PriceMinor = int64(v.Price)
	s.At = v.At
	return
}

// Discard drops every event. It stands in when no brokers are configured.
type Discard struct{}

func (Discard) Publish(context.Context, domain.ClientEvent) error { return nil }
