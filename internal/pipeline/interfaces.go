package pipeline

import (
	"context"

	infra "github.com/postlabor/triage/internal/infra/duckdb"
)

// Store is the destination the loader writes to. It is an interface so
// stages can be tested without a real database file.
type Store interface {
	// ReplaceTriage rebuilds the triage table wholesale; it must be
	// all-or-nothing, leaving any previous table intact on failure.
	ReplaceTriage(ctx context.Context, rows []infra.TriageRow) error

	// ExportParquet writes a full copy of the named table to a
	// standalone Parquet file.
	ExportParquet(ctx context.Context, table, path string) error
}
