package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/incgraph/incgraph/pkg/dot"
	"github.com/incgraph/incgraph/pkg/render"
	"github.com/incgraph/incgraph/pkg/watch"
)

// graphOpts holds the flags of the graph command on top of the shared scan
// flags.
type graphOpts struct {
	scanFlags
	format  string // artifact type: pdf, svg, png, or gv
	engine  string // layout engine: dot or embedded
	outDir  string // where the .gv and the artifact are written
	cleanup bool   // remove the .gv after a successful render
	open    bool   // open the artifact in the default viewer
	watch   bool   // re-render whenever the scanned tree changes
}

// newGraphCmd creates the graph command: scan, serialize, and render in
// one step. This is the default workflow.
func newGraphCmd() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [dirs...]",
		Short: "Scan directories and render the include graph",
		Long: `Scan directories for include directives, write the DOT description, and
render it through Graphviz.

Examples:
  incgraph graph src                       # src -> grapher.gv + grapher.pdf
  incgraph graph -m module --colors src    # module nodes, one color each
  incgraph graph --known-only src include  # hide unresolved headers
  incgraph graph -f svg -c -o src          # SVG only, cleaned up, opened`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyGraphConfig(cmd, cmd.Context())
			return runGraph(cmd.Context(), &opts, scanDirs(args))
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(render.FormatPDF), "output format: pdf, svg, png, or gv")
	cmd.Flags().StringVar(&opts.engine, "engine", string(render.EngineDot), "layout engine: dot or embedded")
	cmd.Flags().StringVarP(&opts.outDir, "output-dir", "d", "", "directory for the description and artifact")
	cmd.Flags().BoolVarP(&opts.cleanup, "cleanup", "c", false, "remove the intermediate .gv after rendering")
	cmd.Flags().BoolVarP(&opts.open, "open", "o", false, "open the artifact in the default viewer")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "keep running and re-render on changes")

	return cmd
}

// applyGraphConfig layers config-file defaults under the unchanged flags.
func (o *graphOpts) applyGraphConfig(cmd *cobra.Command, ctx context.Context) {
	cfg := configFromContext(ctx)
	o.applyConfig(cmd, cfg)

	flags := cmd.Flags()
	if !flags.Changed("format") && cfg.Format != "" {
		o.format = cfg.Format
	}
	if !flags.Changed("engine") && cfg.Engine != "" {
		o.engine = cfg.Engine
	}
	if !flags.Changed("output-dir") && cfg.OutputDir != "" {
		o.outDir = cfg.OutputDir
	}
}

// renderOptions validates the render flags.
func (o *graphOpts) renderOptions() (render.Options, error) {
	format, err := render.ParseFormat(o.format)
	if err != nil {
		return render.Options{}, err
	}
	engine, err := render.ParseEngine(o.engine)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Format:  format,
		Engine:  engine,
		Dir:     o.outDir,
		Cleanup: o.cleanup,
		Open:    o.open,
	}, nil
}

// runGraph executes the full pipeline once, then keeps re-running it on
// change batches in watch mode.
func runGraph(ctx context.Context, opts *graphOpts, dirs []string) error {
	dotOpts, err := opts.dotOptions()
	if err != nil {
		return err
	}
	renderOpts, err := opts.renderOptions()
	if err != nil {
		return err
	}

	if err := graphOnce(ctx, opts, dirs, dotOpts, renderOpts); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	// Opening a viewer once is useful, opening it on every change is not.
	renderOpts.Open = false
	return watchGraph(ctx, opts, dirs, dotOpts, renderOpts)
}

// graphOnce runs scan → marshal → render a single time.
func graphOnce(ctx context.Context, opts *graphOpts, dirs []string, dotOpts dot.Options, renderOpts render.Options) error {
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	lib, err := buildLibrary(ctx, &opts.scanFlags, dirs)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d files with %d includes", lib.Len(), lib.EdgeCount()))

	dotSrc := dot.Marshal(lib, dotOpts)

	sp := newSpinner(ctx, "Rendering "+lib.Name+"."+string(renderOpts.Format))
	result, err := render.Render(ctx, []byte(dotSrc), lib.Name, renderOpts)
	sp.stop()
	if err != nil {
		return err
	}
	logger.Debugf("rendered %s", result.ArtifactPath)

	printSuccess("Graph rendered")
	printStats(lib.Len(), lib.EdgeCount())
	if result.DOTPath != "" && result.DOTPath != result.ArtifactPath {
		printFile(result.DOTPath)
	}
	printFile(result.ArtifactPath)
	if unresolved := lib.Unresolved(); len(unresolved) > 0 && !opts.knownOnly {
		printDetail("%d unresolved targets (use --known-only to hide them)", len(unresolved))
	}
	return nil
}

// watchGraph re-runs the pipeline for every debounced change batch until
// ctx is cancelled.
func watchGraph(ctx context.Context, opts *graphOpts, dirs []string, dotOpts dot.Options, renderOpts render.Options) error {
	logger := loggerFromContext(ctx)

	w, err := watch.New(dirs, watch.Options{
		Recursive: opts.recursive,
		Exclude:   opts.exclude,
	})
	if err != nil {
		return err
	}
	defer w.Close()
	go w.Run(ctx)

	printInfo("Watching %d directories, Ctrl-C to stop", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-w.Errors():
			logger.Warnf("watch: %v", err)
		case batch, ok := <-w.Batches():
			if !ok {
				return ctx.Err()
			}
			logger.Debugf("%d paths changed, re-rendering", len(batch))
			if err := graphOnce(ctx, opts, dirs, dotOpts, renderOpts); err != nil {
				// A broken intermediate state is expected mid-edit, so
				// report it and keep watching.
				printWarning("%s", err)
			}
		}
	}
}
