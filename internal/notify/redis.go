package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const dispatchKeyPrefix = "plansign:dispatch:"

// Redis persists dispatch signals so the saved -> sent precondition survives
// restarts. The signal is a fact, never deleted, so keys carry no TTL.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) MarkDispatched(ctx context.Context, contractID string) error {
	if err := s.client.SetNX(ctx, dispatchKeyPrefix+contractID, "1", 0).Err(); err != nil {
		return fmt.Errorf("mark dispatched: %w", err)
	}
	return nil
}

func (s *Redis) Dispatched(ctx context.Context, contractID string) (bool, error) {
	n, err := s.client.Exists(ctx, dispatchKeyPrefix+contractID).Result()
	if err != nil {
		return false, fmt.Errorf("check dispatched: %w", err)
	}
	return n > 0, nil
}
