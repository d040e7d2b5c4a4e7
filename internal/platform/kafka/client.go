// Package kafka wraps the franz-go producer used to ship audit events.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"sybilguard/internal/platform/config"
)

// Client produces records to a single topic.
type Client struct {
	client *kgo.Client
	admin  *kadm.Client
	topic  string
	logger *slog.Logger
}

// New connects to the brokers. No brokers returns nil, nil so callers keep
// audit events in memory.
func New(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}

	return &Client{
		client: cl,
		admin:  kadm.NewClient(cl),
		topic:  cfg.Topic,
		logger: logger,
	}, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (c *Client) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	resp, err := c.admin.CreateTopics(ctx, partitions, replicationFactor, nil, c.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", c.topic, err)
	}
	for _, r := range resp {
		if r.Err == nil {
			c.logger.InfoContext(ctx, "kafka topic created", "topic", r.Topic, "partitions", partitions)
			continue
		}
		if errors.Is(r.Err, kerr.TopicAlreadyExists) {
			continue
		}
		return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
	}
	return nil
}

// Publish writes one record and waits for the broker acknowledgement.
func (c *Client) Publish(ctx context.Context, key, value []byte, headers map[string]string) error {
	record := &kgo.Record{Topic: c.topic, Key: key, Value: value}
	for k, v := range headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	if err := c.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", c.topic, err)
	}
	return nil
}

func (c *Client) Topic() string {
	return c.topic
}

// Health pings the cluster.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx)
}

// Close flushes buffered records and closes the connection.
func (c *Client) Close(ctx context.Context) {
	if err := c.client.Flush(ctx); err != nil {
		c.logger.WarnContext(ctx, "kafka flush on close failed", "error", err)
	}
	c.client.Close()
}
