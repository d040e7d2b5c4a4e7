package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sybilguard/internal/platform/config"
)

func TestNew_NoBrokersIsUnconfigured(t *testing.T) {
	client, err := New(context.Background(), config.KafkaConfig{Topic: "audit"}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_RequiresTopic(t *testing.T) {
	_, err := New(context.Background(), config.KafkaConfig{Brokers: []string{"localhost:9092"}}, nil)
	assert.Error(t, err)
}
