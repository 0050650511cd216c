package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChangeFeed is the realtime notification transport: one Redis pub/sub
// channel per user, fired on any habit row insert, update or delete. Payloads
// carry only the operation name; subscribers refetch rather than patch.
type ChangeFeed struct {
	client *redis.Client
}

// NewChangeFeed connects the feed. Callers treat a nil feed as "no realtime".
func NewChangeFeed(redisURL string) (*ChangeFeed, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &ChangeFeed{client: client}, nil
}

func channelFor(userID string) string {
	return "habits:changes:" + userID
}

func (f *ChangeFeed) Publish(ctx context.Context, userID, op string) error {
	return f.client.Publish(ctx, channelFor(userID), op).Err()
}

// Subscribe invokes handler for every change scoped to the user until ctx is
// cancelled. The handler gets the operation name, though subscribers are
// expected to refetch unconditionally.
func (f *ChangeFeed) Subscribe(ctx context.Context, userID string, handler func(op string)) {
	sub := f.client.Subscribe(ctx, channelFor(userID))

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler(msg.Payload)
			}
		}
	}()
}

func (f *ChangeFeed) Close() {
	if err := f.client.Close(); err != nil {
		log.Printf("change feed close failed: %v", err)
	}
}
