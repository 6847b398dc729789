package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/peplab"
	"github.com/aretw0/peplab/internal/config"
	"github.com/aretw0/peplab/pkg/adapters/memory"
	"github.com/aretw0/peplab/pkg/adapters/redis"
	"github.com/aretw0/peplab/pkg/observability"
	"github.com/aretw0/peplab/pkg/ports"
)

// Runtime bundles an engine with the resources it owns.
type Runtime struct {
	Engine   *peplab.Engine
	Store    ports.SessionStore
	Registry *prometheus.Registry // nil when metrics are disabled

	closers []func() error
}

// Close releases the store connection, if any.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// OpenStore builds the session store selected by cfg. The locker is nil
// unless the store is Redis with locking enabled.
func OpenStore(cfg config.Config) (ports.SessionStore, ports.DistributedLocker, func() error, error) {
	switch cfg.Session.Store {
	case "", "memory":
		return memory.NewStore(), nil, func() error { return nil }, nil
	case "redis":
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		var locker ports.DistributedLocker
		if cfg.Redis.Lock {
			locker = redis.NewLocker(store.Client(), cfg.Redis.Prefix+"lock:")
		}
		return store, locker, store.Close, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
}

// NewRuntime wires an engine from configuration: backend probe, session
// store, distributed lock, log hooks and Prometheus metrics.
func NewRuntime(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	store, locker, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Store: store, closers: []func() error{closeStore}}

	opts := []peplab.Option{
		peplab.WithBackendURL(cfg.Backend.URL, cfg.Backend.Timeout),
		peplab.WithStore(store),
		peplab.WithCacheTTL(cfg.Backend.CacheTTL),
		peplab.WithHistoryLimit(cfg.Session.HistoryLimit),
		peplab.WithLogger(logger),
		peplab.WithLifecycleHooks(observability.LogHooks(logger)),
	}
	if locker != nil {
		opts = append(opts, peplab.WithLocker(locker, 0))
	}
	if cfg.Metrics.Enabled {
		rt.Registry = prometheus.NewRegistry()
		rt.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, peplab.WithLifecycleHooks(observability.NewMetrics(rt.Registry).Hooks()))
	}

	eng, err := peplab.New(opts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	rt.Engine = eng
	return rt, nil
}
