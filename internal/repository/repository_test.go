package repository_test

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:17.6-alpine3.22"

var migrations = []string{
	"../migrations/01_cart_snapshots.up.sql",
}

// startPostgres runs a disposable Postgres with the snapshot schema applied.
// The caller terminates the returned container.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pc, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("cartsync"),
		postgres.WithInitScripts(migrations...),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := pc.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return pc, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return pc, connStr, nil
}
