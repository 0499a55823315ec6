package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS payments
(
	ts              DateTime64(3, 'UTC'),
	amount          Decimal(18, 2),
	method          String,
	status          String,
	reference       Nullable(String),
	raw_payload     String DEFAULT '{}',
	ingested_at     DateTime DEFAULT now()
)
ENGINE = MergeTree
PARTITION BY toYYYYMMDD(ts)
ORDER BY (ts, method, status)
SETTINGS
    index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
