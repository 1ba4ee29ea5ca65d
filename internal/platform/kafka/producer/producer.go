// Package producer wraps the franz-go client for asynchronous publishing.
package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer hands records to the broker without blocking the caller. Delivery
// results arrive on the completion callback, never as a synchronous error, so
// a slow broker cannot stall the request path.
type Producer struct {
	client *kgo.Client
}

// New builds a producer for the given seed brokers.
func New(brokers []string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer client: %w", err)
	}
	return &Producer{client: client}, nil
}

// Send enqueues one record. done is invoked from the client's callback
// goroutine once the broker acknowledges or the send fails; it may be nil.
func (p *Producer) Send(ctx context.Context, topic string, key, value []byte, done func(error)) {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	p.client.Produce(ctx, rec, func(_ *kgo.Record, err error) {
		if done != nil {
			done(err)
		}
	})
}

// Close flushes buffered records with a bounded timeout and releases the
// client. Records still unflushed after the timeout are dropped.
func (p *Producer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
