package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kazen/backend/internal/domain"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ domain.PriceEventPublisher = (*PriceProducer)(nil)

// ProducerClient is the part of [kgo.Client] the producer needs
type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// NewKafkaClient connects a producing client to the seed brokers
func NewKafkaClient(ctx context.Context, seedBrokers []string, topic string) (*kgo.Client, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(seedBrokers...),
		kgo.DefaultProduceTopicAlways(),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}

	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, err
	}
	return cl, nil
}

// PriceProducer writes accepted price edits to Kafka as avro records
// keyed by product and store.
type PriceProducer struct {
	cl     ProducerClient
	logger *slog.Logger
}

func NewPriceProducer(cl ProducerClient, logger *slog.Logger) *PriceProducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceProducer{cl: cl, logger: logger.With("component", "price-producer")}
}

func (p *PriceProducer) PublishPriceChanges(ctx context.Context, changes []domain.PriceChange) error {
	const op = "PriceProducer.PublishPriceChanges"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(changes) == 0 {
		return nil
	}

	rs, err := p.createRecords(changes)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.logger.Debug("price changes published", "count", len(rs))
	return nil
}

func (p *PriceProducer) createRecords(changes []domain.PriceChange) ([]*kgo.Record, error) {
	rs := make([]*kgo.Record, 0, len(changes))
	for _, c := range changes {
		v, err := EncodePriceChange(c)
		if err != nil {
			return nil, err
		}
		rs = append(rs, &kgo.Record{
			Key:   recordKey(c),
			Value: v,
			Headers: []kgo.RecordHeader{
				{Key: "schema", Value: []byte("kazen.prices.PriceChangedV1")},
			},
		})
	}
	return rs, nil
}

func recordKey(c domain.PriceChange) []byte {
	return []byte(c.ProductID + ":" + c.StoreID)
}

func (p *PriceProducer) Close() {
	p.logger.Info("closing producer...")
	p.cl.Close()
	p.logger.Info("producer is closed")
}

// NoopPublisher drops every change. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPriceChanges(context.Context, []domain.PriceChange) error {
	return nil
}
