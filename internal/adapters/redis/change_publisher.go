package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/redis/go-redis/v9"
)

// DefaultChangeChannel is the pub/sub channel for record change events.
const DefaultChangeChannel = "hrnova:changes"

// ChangePublisher broadcasts record mutations over Redis pub/sub.
type ChangePublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewChangePublisher creates a publisher on the default channel.
func NewChangePublisher(client redis.UniversalClient) *ChangePublisher {
	return &ChangePublisher{client: client, channel: DefaultChangeChannel}
}

func (p *ChangePublisher) Publish(ctx context.Context, event core.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if pubErr := p.client.Publish(ctx, p.channel, data).Err(); pubErr != nil {
		return fmt.Errorf("publish change event: %w", pubErr)
	}
	return nil
}

// Subscribe returns a channel of decoded change events. The channel closes
// when ctx is done. Undecodable payloads are dropped.
func Subscribe(ctx context.Context, client redis.UniversalClient) <-chan core.ChangeEvent {
	sub := client.Subscribe(ctx, DefaultChangeChannel)
	out := make(chan core.ChangeEvent)

	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event core.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
