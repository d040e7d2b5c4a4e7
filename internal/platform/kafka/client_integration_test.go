//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"sybilguard/internal/platform/config"
	"sybilguard/pkg/testutil/containers"
)

type KafkaClientSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaClientSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaClientSuite))
}

func (s *KafkaClientSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaClientSuite) TestPublishRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := New(ctx, config.KafkaConfig{Brokers: s.redpanda.Brokers, Topic: "audit-roundtrip", ClientID: "test"}, nil)
	s.Require().NoError(err)
	defer client.Close(ctx)

	s.Require().NoError(client.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(client.EnsureTopic(ctx, 1, 1), "second bootstrap should tolerate an existing topic")

	s.Require().NoError(client.Publish(ctx, []byte("alice"), []byte(`{"action":"identity_verified"}`), map[string]string{"category": "operations"}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics("audit-roundtrip"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal("alice", string(records[0].Key))
	s.Equal(`{"action":"identity_verified"}`, string(records[0].Value))
	s.Require().Len(records[0].Headers, 1)
	s.Equal("category", records[0].Headers[0].Key)
}
