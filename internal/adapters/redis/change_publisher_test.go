package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/domain/model"
)

func TestChangePublisher_PublishAndSubscribe(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := Subscribe(ctx, client)

	// Give the subscription a moment to establish before publishing.
	time.Sleep(100 * time.Millisecond)

	pub := NewChangePublisher(client)
	want := core.ChangeEvent{
		EntityType: model.AuditEntityEmployee,
		EntityID:   "emp-1",
		Action:     "created",
	}
	require.NoError(t, pub.Publish(ctx, want))

	select {
	case got := <-events:
		assert.Equal(t, want, got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for change event")
	}
}

func TestSubscribe_ClosesOnContextCancel(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events := Subscribe(ctx, client)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "expected channel to be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
