package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/incgraph/incgraph/internal/server"
	"github.com/incgraph/incgraph/pkg/render"
	"github.com/incgraph/incgraph/pkg/watch"
)

// defaultAddr is the serve listen address when neither flag nor config
// supplies one.
const defaultAddr = ":7878"

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	scanFlags
	addr   string // listen address
	engine string // layout engine used for /graph.svg
}

// newServeCmd creates the serve command: an HTTP view of the include graph
// that follows the tree as it changes.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [dirs...]",
		Short: "Serve the include graph over HTTP",
		Long: `Serve the include graph of one or more directories over HTTP. The scanned
tree is watched, so a reload always shows the current state.

Routes:
  GET /            HTML page embedding the graph
  GET /graph.svg   rendered graph
  GET /graph.gv    DOT description
  GET /graph.json  node/edge lists
  GET /healthz     liveness probe`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			opts.applyConfig(cmd, cfg)
			if !cmd.Flags().Changed("addr") && cfg.Addr != "" {
				opts.addr = cfg.Addr
			}
			if !cmd.Flags().Changed("engine") && cfg.Engine != "" {
				opts.engine = cfg.Engine
			}
			return runServe(cmd.Context(), &opts, scanDirs(args))
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.engine, "engine", string(render.EngineDot), "layout engine: dot or embedded")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts, dirs []string) error {
	dotOpts, err := opts.dotOptions()
	if err != nil {
		return err
	}
	engine, err := render.ParseEngine(opts.engine)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)

	srv := server.New(func(r *http.Request, dotSrc []byte) ([]byte, error) {
		return render.SVG(r.Context(), dotSrc, engine)
	}, logger)

	rescan := func() error {
		lib, err := buildLibrary(ctx, &opts.scanFlags, dirs)
		if err != nil {
			return err
		}
		srv.Update(lib, dotOpts)
		return nil
	}
	if err := rescan(); err != nil {
		return err
	}

	w, err := watch.New(dirs, watch.Options{
		Recursive: opts.recursive,
		Exclude:   opts.exclude,
	})
	if err != nil {
		return err
	}
	defer w.Close()
	go w.Run(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				logger.Warnf("watch: %v", err)
			case _, ok := <-w.Batches():
				if !ok {
					return
				}
				if err := rescan(); err != nil {
					logger.Warnf("rescan: %v", err)
				}
			}
		}
	}()

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	printInfo("Serving on http://localhost%s", opts.addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
