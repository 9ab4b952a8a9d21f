package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
)

const roughEventsKey = "rough_events"

// Storage caches the scraped announcement list so page turns do not re-fetch
// the catalog site.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func (s *Storage) Get() ([]entity.RoughEvent, error) {
	eventsBytes, err := s.redis.Get(context.Background(), roughEventsKey).Result()
	if err != nil {
		return nil, err
	}

	var events []entity.RoughEvent
	if err = json.Unmarshal([]byte(eventsBytes), &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (s *Storage) Set(events []entity.RoughEvent, expiration time.Duration) {
	eventsBytes, _ := json.Marshal(events)
	s.redis.Set(context.Background(), roughEventsKey, eventsBytes, expiration)
}

func (s *Storage) Clear() {
	s.redis.Del(context.Background(), roughEventsKey)
}
