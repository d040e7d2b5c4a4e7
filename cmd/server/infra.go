package main

import (
	"context"
	"database/sql"
	"log/slog"

	"sybilguard/internal/identity/ports"
	"sybilguard/internal/identity/store/graph"
	"sybilguard/internal/identity/store/matrix"
	"sybilguard/internal/identity/store/verdict"
	"sybilguard/internal/platform/config"
	"sybilguard/internal/platform/kafka"
	"sybilguard/internal/platform/neo4j"
	"sybilguard/internal/platform/postgres"
	"sybilguard/internal/platform/redis"
	audit "sybilguard/pkg/platform/audit"
	kafkastore "sybilguard/pkg/platform/audit/store/kafka"
	"sybilguard/pkg/platform/audit/store/memory"
	auditpg "sybilguard/pkg/platform/audit/store/postgres"
)

// infra holds the backing stores. Every backend left unconfigured falls back
// to its in-memory implementation.
type infra struct {
	log *slog.Logger

	db    *sql.DB
	redis *redis.Client
	neo4j *neo4j.Driver
	kafka *kafka.Client

	matrices   ports.MatrixStore
	graph      ports.GraphStore
	verdicts   ports.VerdictStore
	auditStore audit.Store
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (_ *infra, err error) {
	in := &infra{log: log}
	defer func() {
		if err != nil {
			in.Close(context.Background())
		}
	}()

	in.db, err = postgres.New(ctx, postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if in.db != nil {
		if err = postgres.Migrate(ctx, in.db); err != nil {
			return nil, err
		}
		in.matrices = matrix.NewPostgres(in.db)
		log.Info("matrix store: postgres")
	} else {
		in.matrices = matrix.NewInMemory()
		log.Info("matrix store: in-memory")
	}

	in.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if in.redis != nil {
		in.verdicts = verdict.NewRedis(in.redis.Client, verdict.WithKeyPrefix(in.redis.KeyPrefix))
		log.Info("verdict store: redis")
	} else {
		in.verdicts = verdict.NewInMemory()
		log.Info("verdict store: in-memory")
	}

	in.neo4j, err = neo4j.New(ctx, neo4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
	}, log)
	if err != nil {
		return nil, err
	}
	if in.neo4j != nil {
		in.neo4j.EnsureSchema(ctx)
		in.graph = graph.NewNeo4j(in.neo4j)
		log.Info("relationship graph: neo4j")
	} else {
		in.graph = graph.NewInMemory()
		log.Info("relationship graph: in-memory")
	}

	// Local audit trail: durable in Postgres when configured. Kafka, when
	// configured, publishes every event and mirrors it here for reads.
	var local audit.Store = memory.NewInMemoryStore()
	if in.db != nil {
		local = auditpg.New(in.db)
		log.Info("audit store: postgres")
	}
	in.auditStore = local
	in.kafka, err = kafka.New(ctx, cfg.Kafka, log)
	if err != nil {
		return nil, err
	}
	if in.kafka != nil {
		if topicErr := in.kafka.EnsureTopic(ctx, 1, 1); topicErr != nil {
			log.Warn("kafka audit topic bootstrap failed", "topic", in.kafka.Topic(), "error", topicErr)
		}
		in.auditStore, err = kafkastore.New(in.kafka, kafkastore.WithMirror(local))
		if err != nil {
			return nil, err
		}
		log.Info("audit sink: kafka", "topic", in.kafka.Topic())
	}

	return in, nil
}

func (in *infra) healthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if in.db != nil {
		checks["postgres"] = in.db.PingContext
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health
	}
	if in.neo4j != nil {
		checks["neo4j"] = in.neo4j.Health
	}
	if in.kafka != nil {
		checks["kafka"] = in.kafka.Health
	}
	return checks
}

func (in *infra) Close(ctx context.Context) {
	if in.kafka != nil {
		in.kafka.Close(ctx)
	}
	if in.neo4j != nil {
		if err := in.neo4j.Close(ctx); err != nil {
			in.log.Warn("close neo4j", "error", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			in.log.Warn("close redis", "error", err)
		}
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			in.log.Warn("close postgres", "error", err)
		}
	}
}
