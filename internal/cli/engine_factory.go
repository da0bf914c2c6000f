package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/pkg/adapters/file"
	"github.com/aretw0/portals/pkg/adapters/memory"
	"github.com/aretw0/portals/pkg/adapters/redis"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/ports"
)

// Graph sources selectable with --store.
const (
	StoreLoam   = "loam"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Options carries the persistent CLI flags.
type Options struct {
	Dir               string
	LogLevel          string
	LogFormat         string
	Placeholders      []string
	PlaceholderPrefix string

	Store    string
	RedisURL string
	RedisTTL time.Duration
}

// NewLogger builds the stderr logger for the configured level and format.
func (o Options) NewLogger() *slog.Logger {
	return logging.NewWriter(os.Stderr, logging.ParseLevel(o.LogLevel), o.LogFormat)
}

// CreateEngine initializes a portals engine with standard CLI conventions.
// The loam source reads the directory directly; other sources go through OpenStore.
// A non-nil loader replaces the source selected by opts. hooks run after the
// debug logging hooks.
func CreateEngine(opts Options, logger *slog.Logger, hooks domain.LifecycleHooks, loader ports.GraphLoader) (*portals.Engine, error) {
	engineOpts := []portals.Option{
		portals.WithLogger(logger),
		portals.WithPlaceholderPrefix(opts.PlaceholderPrefix),
		portals.WithLifecycleHooks(createDebugHooks(logger).Merge(hooks)),
	}
	if len(opts.Placeholders) > 0 {
		engineOpts = append(engineOpts, portals.WithPlaceholders(opts.Placeholders...))
	}

	repoPath := opts.Dir

	switch {
	case loader != nil:
		engineOpts = append(engineOpts, portals.WithLoader(loader))
		repoPath = ""
	case opts.Store == "" || opts.Store == StoreLoam:
	default:
		store, _, err := OpenStore(opts)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, portals.WithLoader(store))
		repoPath = ""
	}

	eng, err := portals.New(repoPath, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return eng, nil
}

// OpenStore opens the writable graph store selected by opts.Store.
// A locker is returned for stores shared between processes.
func OpenStore(opts Options) (ports.GraphStore, ports.DistributedLocker, error) {
	switch opts.Store {
	case StoreFile:
		return file.New(opts.Dir), nil, nil
	case StoreMemory:
		return memory.New(), nil, nil
	case StoreRedis:
		store, err := redis.New(opts.RedisURL, redis.WithTTL(opts.RedisTTL))
		if err != nil {
			return nil, nil, err
		}
		return store, redis.NewLocker(store.Client(), redis.DefaultPrefix), nil
	case StoreLoam, "":
		return nil, nil, fmt.Errorf("store %q is read-only", StoreLoam)
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want %s, %s, %s or %s)", opts.Store, StoreLoam, StoreFile, StoreRedis, StoreMemory)
	}
}

// mirror copies every graph of loader into a fresh memory store.
func mirror(ctx context.Context, loader ports.GraphLoader, logger *slog.Logger) (*memory.Store, error) {
	store := memory.New()
	if loader == nil {
		return store, nil
	}
	ids, err := loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	for _, id := range ids {
		g, err := loader.Load(ctx, id)
		if err != nil {
			logger.Warn("Skipping graph", "graph_id", id, "err", err)
			continue
		}
		if err := store.Save(ctx, g); err != nil {
			return nil, err
		}
	}
	return store, nil
}
