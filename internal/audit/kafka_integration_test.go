//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"plansign/internal/audit"
	"plansign/pkg/testutil/containers"
)

func TestKafkaProducer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	redpanda := containers.NewRedpandaContainer(t)
	const topic = "contract-audit-events"

	admin, err := kgo.NewClient(kgo.SeedBrokers(redpanda.Broker))
	require.NoError(t, err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopics(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	producer, err := audit.NewKafkaProducer([]string{redpanda.Broker}, topic)
	require.NoError(t, err)
	defer producer.Close()

	event := audit.Event{
		ID:         "event-id-1",
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
		ContractID: "contract-1",
		FieldID:    "field-1",
		Actor:      "signer-1",
		Action:     audit.ActionSignatureCaptured,
		Detail:     "vendor",
	}
	require.NoError(t, producer.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "contract-1", string(records[0].Key), "keyed by contract for per-contract ordering")

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.Action, got.Action)
	assert.Equal(t, event.ContractID, got.ContractID)
}
