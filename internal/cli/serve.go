package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/portals"
	httpAdapter "github.com/aretw0/portals/pkg/adapters/http"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/observability"
	"github.com/aretw0/portals/pkg/ports"
	"github.com/aretw0/portals/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// App bundles the components behind the HTTP API.
type App struct {
	Engine   *portals.Engine
	Sessions *session.Manager
	Registry *prometheus.Registry
	Handler  http.Handler
}

// NewApp wires engine, store, sessions and metrics for serving.
// With the read-only loam source, graphs are mirrored into memory and edits
// last for the lifetime of the process.
func NewApp(ctx context.Context, opts Options, logger *slog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	var (
		store  ports.GraphStore
		locker ports.DistributedLocker
		err    error
	)
	if opts.Store == "" || opts.Store == StoreLoam {
		var source *portals.Engine
		source, err = CreateEngine(opts, logger, domain.LifecycleHooks{}, nil)
		if err != nil {
			return nil, err
		}
		store, err = mirror(ctx, source.Loader(), logger)
		if err != nil {
			return nil, err
		}
	} else {
		store, locker, err = OpenStore(opts)
		if err != nil {
			return nil, err
		}
	}

	eng, err := CreateEngine(opts, logger, metrics.Hooks(), store)
	if err != nil {
		return nil, err
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker))
	}
	sessions := session.NewManager(store, eng, sessionOpts...)

	handler, err := httpAdapter.NewHandler(eng,
		httpAdapter.WithSessions(sessions),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &App{Engine: eng, Sessions: sessions, Registry: reg, Handler: handler}, nil
}

// RunServe serves the HTTP API on addr until ctx is done.
func RunServe(ctx context.Context, opts Options, addr string, w io.Writer, logger *slog.Logger) error {
	app, err := NewApp(ctx, opts, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: app.Handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		printSystemMessage(w, "Starting Portals Server on %s", srv.Addr)
		printSystemMessage(w, "Serving graphs from: %s (%s)", opts.Dir, storeName(opts))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(w, "Portals Server stopped gracefully")
		return nil
	}
}

func storeName(opts Options) string {
	if opts.Store == "" {
		return StoreLoam
	}
	return opts.Store
}
