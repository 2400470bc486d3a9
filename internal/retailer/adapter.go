// Package retailer holds the per-retailer source adapters and the engine
// that runs them. Adapters own all source-specific knowledge (file layouts,
// column names, combination policy); the reconciliation core in
// internal/reconcile owns everything they have in common.
package retailer

import (
	"context"
	"time"

	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// Env is the run environment handed to each adapter.
type Env struct {
	// SourceDir is the root of the synced POS file share; each adapter reads
	// its own subdirectory.
	SourceDir string

	// Now stamps last_updated fields so a run is reproducible in tests.
	Now time.Time
}

// Result is everything one retailer run produces.
type Result struct {
	Dataset      *model.Dataset
	Supplemental map[string]*model.Supplemental
}

// Adapter defines the interface each retailer source must implement.
// Build reads the retailer's raw files and returns the canonical dataset.
// Row-level defects (bad dates, zero-sentinel UPCs) are skipped silently and
// file-level defects are logged and skipped; Build returns an error only for
// retailer-level defects (no usable input at all), in which case the engine
// records the failure and moves on to the next retailer.
type Adapter interface {
	// Key returns the retailer key used for directories and manifest entries
	// (e.g. "ngvc").
	Key() string

	// DisplayName returns the human-readable retailer name (e.g. "NGVC").
	DisplayName() string

	// Build extracts and reconciles the retailer's source files.
	Build(ctx context.Context, env Env) (*Result, error)
}

// lastUpdated formats the canonical last_updated stamp.
func lastUpdated(now time.Time) string {
	return now.Format("2006-01-02")
}

// newDataset assembles the canonical dataset from the finished registry and
// period table.
func newDataset(retailer string, now time.Time, reg *reconcile.ProductRegistry, tbl *reconcile.Table) *model.Dataset {
	return &model.Dataset{
		Retailer:    retailer,
		LastUpdated: lastUpdated(now),
		TimeGrain:   model.GrainMonthly,
		Products:    reg.Products(),
		Periods:     tbl.Export(),
	}
}

// newSupplemental wraps a record slice in the supplemental envelope.
func newSupplemental(retailer string, now time.Time, records []any) *model.Supplemental {
	return &model.Supplemental{
		Retailer:    retailer,
		LastUpdated: lastUpdated(now),
		Records:     records,
	}
}
