package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/barangay-cms/internal/config"
	"github.com/barangay-cms/internal/infrastructure/dynamo"
	"github.com/barangay-cms/internal/infrastructure/memory"
	"github.com/barangay-cms/internal/infrastructure/postgres"
	redisinfra "github.com/barangay-cms/internal/infrastructure/redis"
	transporthttp "github.com/barangay-cms/internal/transport/http"
	"github.com/barangay-cms/internal/transport/http/handler"
)

// stores holds the adapters selected by STORE_BACKEND and SESSION_BACKEND.
type stores struct {
	identities transporthttp.IdentityRepository
	challenges transporthttp.ChallengeRepository
	sessions   transporthttp.SessionRepository
	checks     map[string]handler.Pinger
	closers    []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	st := &stores{checks: map[string]handler.Pinger{}}

	var dynamoClient *dynamodb.Client
	dynamoOnce := func() (*dynamodb.Client, error) {
		if dynamoClient != nil {
			return dynamoClient, nil
		}
		c, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dynamo.Bootstrap(ctx, c, cfg.DynamoTables)
		dynamoClient = c
		return c, nil
	}

	switch cfg.StoreBackend {
	case "dynamo":
		c, err := dynamoOnce()
		if err != nil {
			return nil, fmt.Errorf("dynamo: %w", err)
		}
		st.identities = dynamo.NewIdentityRepo(c, cfg.DynamoTables.Identities)
		st.challenges = dynamo.NewChallengeRepo(c, cfg.DynamoTables.OTPChallenges)
	case "postgres":
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, pool.Close)
		st.checks["postgres"] = func(ctx context.Context) error { return postgres.Ping(ctx, pool) }
		st.identities = postgres.NewIdentityRepo(pool)
		st.challenges = postgres.NewChallengeRepo(pool)
	case "memory":
		slog.Warn("using in-memory profile store; data is lost on restart")
		st.identities = memory.NewIdentityRepo()
		st.challenges = memory.NewChallengeRepo()
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.SessionBackend {
	case "dynamo":
		c, err := dynamoOnce()
		if err != nil {
			st.close()
			return nil, fmt.Errorf("dynamo: %w", err)
		}
		st.sessions = dynamo.NewSessionRepo(c, cfg.DynamoTables.Sessions)
	case "redis":
		client, err := redisinfra.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			st.close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Close() })
		st.checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, client) }
		st.sessions = redisinfra.NewSessionRepo(client)
	case "memory":
		st.sessions = memory.NewSessionRepo()
	default:
		st.close()
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	if dynamoClient != nil {
		c := dynamoClient
		st.checks["dynamo"] = func(ctx context.Context) error {
			_, err := c.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: &cfg.DynamoTables.Identities})
			return err
		}
	}
	return st, nil
}
