package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/redis/catalog"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/adapters/database/redis/states"
)

type Client struct {
	States  *states.Storage
	Catalog *catalog.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(opts Options) (*Client, error) {
	stateStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := stateStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping state storage: %w", err)
	}

	catalogStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := catalogStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping catalog storage: %w", err)
	}

	return &Client{
		States:  states.NewStorage(stateStorage),
		Catalog: catalog.NewStorage(catalogStorage),
	}, nil
}
