// Package states persists per-user dialog state for the input manager.
package states

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func (s *Storage) Set(userID int64, state string, expiration time.Duration) error {
	return s.redis.Set(context.Background(), fmt.Sprintf("%d", userID), state, expiration).Err()
}

// Get returns an empty state for users with no pending input.
func (s *Storage) Get(userID int64) (string, error) {
	state, err := s.redis.Get(context.Background(), fmt.Sprintf("%d", userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return state, nil
}

func (s *Storage) Delete(userID int64) {
	s.redis.Del(context.Background(), fmt.Sprintf("%d", userID))
}
