package retailer

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/manifest"
	"github.com/sells-group/retail-etl/internal/runlog"
)

// Engine runs adapters sequentially with per-retailer failure isolation:
// one retailer's bad files must never block the others, and a failed
// retailer's stale manifest entry is preserved rather than overwritten.
type Engine struct {
	sourceDir string
	outputDir string
	manifest  *manifest.Store
	runs      *runlog.Log
	registry  *Registry
	now       func() time.Time
}

// Summary reports run outcomes per retailer.
type Summary struct {
	Succeeded int
	Failed    int
}

// NewEngine builds an engine. runs may be nil to disable run history.
func NewEngine(sourceDir, outputDir string, m *manifest.Store, runs *runlog.Log, reg *Registry) *Engine {
	return &Engine{
		sourceDir: sourceDir,
		outputDir: outputDir,
		manifest:  m,
		runs:      runs,
		registry:  reg,
		now:       time.Now,
	}
}

// Run executes the selected retailers (all when keys is empty), writes their
// outputs, and rewrites the manifest once at the end. It returns an error
// only for process-level failures; per-retailer failures are reflected in
// the summary.
func (e *Engine) Run(ctx context.Context, keys []string) (Summary, error) {
	var s Summary

	adapters, err := e.registry.Select(keys)
	if err != nil {
		return s, err
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return s, eris.Wrapf(err, "retailer: create output dir %s", e.outputDir)
	}

	env := Env{SourceDir: e.sourceDir, Now: e.now()}

	for _, a := range adapters {
		if err := ctx.Err(); err != nil {
			return s, eris.Wrap(err, "retailer: run canceled")
		}

		log := zap.L().With(zap.String("retailer", a.Key()))
		log.Info("processing retailer")

		runID := e.startRun(ctx, a.Key())

		res, err := a.Build(ctx, env)
		if err != nil {
			log.Error("retailer failed", zap.Error(err))
			e.failRun(ctx, runID, err)
			s.Failed++
			continue
		}

		entry, err := writeOutputs(e.outputDir, a.Key(), a.DisplayName(), res)
		if err != nil {
			log.Error("writing outputs failed", zap.Error(err))
			e.failRun(ctx, runID, err)
			s.Failed++
			continue
		}
		e.manifest.Record(a.Key(), entry)

		e.completeRun(ctx, runID, len(res.Dataset.Products), len(res.Dataset.Periods))
		log.Info("retailer complete",
			zap.Int("products", len(res.Dataset.Products)),
			zap.Int("periods", len(res.Dataset.Periods)),
			zap.Strings("features", entry.Features),
		)
		s.Succeeded++
	}

	if err := e.manifest.Write(e.now()); err != nil {
		return s, err
	}
	return s, nil
}

func (e *Engine) startRun(ctx context.Context, retailer string) int64 {
	if e.runs == nil {
		return 0
	}
	id, err := e.runs.Start(ctx, retailer)
	if err != nil {
		zap.L().Warn("run log unavailable", zap.Error(err))
		return 0
	}
	return id
}

func (e *Engine) completeRun(ctx context.Context, id int64, products, periods int) {
	if e.runs == nil || id == 0 {
		return
	}
	if err := e.runs.Complete(ctx, id, products, periods); err != nil {
		zap.L().Warn("run log unavailable", zap.Error(err))
	}
}

func (e *Engine) failRun(ctx context.Context, id int64, cause error) {
	if e.runs == nil || id == 0 {
		return
	}
	if err := e.runs.Fail(ctx, id, cause.Error()); err != nil {
		zap.L().Warn("run log unavailable", zap.Error(err))
	}
}
