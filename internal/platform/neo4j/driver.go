// Package neo4j wraps the Bolt driver used for the relationship graph.
// It works against Neo4j and Memgraph.
package neo4j

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Config struct {
	URI      string
	Username string
	Password string
}

type Driver struct {
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

// New connects and verifies connectivity. An empty URI returns nil, nil so
// callers can fall back to the in-memory graph.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Driver, error) {
	if cfg.URI == "" {
		return nil, nil
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create graph driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "connected to graph database", "uri", cfg.URI)
	return &Driver{driver: driver, logger: logger}, nil
}

func (d *Driver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("execute query: %w", err)
	}
	return *result, nil
}

// schemaQueries create the lookup index on identity ids. Index creation is
// idempotent on Neo4j; Memgraph reports an error when it already exists.
var schemaQueries = []string{
	"CREATE INDEX identity_id IF NOT EXISTS FOR (n:Identity) ON (n.id)",
}

// EnsureSchema creates indices, logging failures instead of aborting.
func (d *Driver) EnsureSchema(ctx context.Context) {
	for _, q := range schemaQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			d.logger.WarnContext(ctx, "failed to create graph index", "query", q, "error", err)
		}
	}
}

// Health pings the server.
func (d *Driver) Health(ctx context.Context) error {
	return d.driver.VerifyConnectivity(ctx)
}

func (d *Driver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}
