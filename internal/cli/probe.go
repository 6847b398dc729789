package cli

import (
	"context"
	"time"

	"github.com/aretw0/peplab/internal/config"
	"github.com/aretw0/peplab/internal/presentation/tui"
	"github.com/aretw0/peplab/pkg/adapters/health"
)

// Probe checks the configured backend once.
func Probe(ctx context.Context, cfg config.Config) tui.ProbeReport {
	checker := health.NewHTTPChecker(cfg.Backend.URL, health.WithTimeout(cfg.Backend.Timeout))

	start := time.Now()
	up, err := checker.Check(ctx)
	return tui.ProbeReport{
		URL:     checker.URL(),
		Up:      up,
		Err:     err,
		Elapsed: time.Since(start),
	}
}
