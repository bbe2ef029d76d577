package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/launchmentor/launchmentor-backend/internal/conversations/domain"
)

// Channel prefix for message-insert events: chat:events:{conversation_id}
const eventChannelPrefix = "chat:events:"

// Bus fans newly inserted message rows out to live transcript subscribers
// over Redis Pub/Sub. Delivery is at-least-once relative to the sender's own
// local append; subscribers dedupe on the message id if they need to.
type Bus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

func channelFor(conversationID string) string {
	return eventChannelPrefix + conversationID
}

// Publish broadcasts one inserted message to the conversation's channel.
func (b *Bus) Publish(ctx context.Context, msg domain.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message event: %w", err)
	}
	if err := b.client.Publish(ctx, channelFor(msg.ConversationID), payload).Err(); err != nil {
		return fmt.Errorf("publish message event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of message inserts for one conversation and a
// cancel func releasing the subscription. Events arrive in publish order;
// no re-sorting is done downstream.
func (b *Bus) Subscribe(ctx context.Context, conversationID string) (<-chan domain.Message, func()) {
	sub := b.client.Subscribe(ctx, channelFor(conversationID))
	// Wait for the subscription confirmation so a publish racing this call
	// is not lost.
	if _, err := sub.Receive(ctx); err != nil {
		log.Printf("[warn] operation=bus_subscribe conversation_id=%s error=%v", conversationID, err)
	}
	out := make(chan domain.Message, 16)

	go func() {
		defer close(out)
		for redisMsg := range sub.Channel() {
			var m domain.Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &m); err != nil {
				log.Printf("[warn] operation=bus_subscribe error=bad payload on %s: %v", redisMsg.Channel, err)
				continue
			}
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return out, cancel
}
