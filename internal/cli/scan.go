package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/incgraph/incgraph/pkg/config"
	"github.com/incgraph/incgraph/pkg/dot"
	"github.com/incgraph/incgraph/pkg/errors"
	"github.com/incgraph/incgraph/pkg/source"
)

// defaultGraphName names the graph and its output files when neither flag
// nor config supplies one.
const defaultGraphName = "grapher"

// scanFlags holds the flags shared by every command that scans directories.
type scanFlags struct {
	name      string   // graph name
	mode      string   // file or module granularity
	knownOnly bool     // drop edges to targets outside the scanned set
	colors    bool     // assign per-module fill colors
	recursive bool     // descend into subdirectories
	exts      []string // extension allow-list
	exclude   []string // directory names skipped when recursive
	noCache   bool     // bypass the scan cache
	palette   []string // fill-color cycle, config-supplied only
}

// register binds the shared flags to cmd.
func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", defaultGraphName, "graph name, also the output file base name")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(dot.ModeFile), "node granularity: file or module")
	cmd.Flags().BoolVar(&f.knownOnly, "known-only", false, "only keep edges to files found by the scan")
	cmd.Flags().BoolVar(&f.colors, "colors", false, "fill nodes with a color per module")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "scan subdirectories as well")
	cmd.Flags().StringSliceVar(&f.exts, "ext", nil, "only scan files with these extensions (repeatable)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "directory names to skip when recursive (repeatable)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the scan cache")
}

// applyConfig fills in defaults from the configuration file for every flag
// the user did not set explicitly. Explicit flags always win.
func (f *scanFlags) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("name") && cfg.Name != "" {
		f.name = cfg.Name
	}
	if !flags.Changed("mode") && cfg.Mode != "" {
		f.mode = cfg.Mode
	}
	if !flags.Changed("known-only") && cfg.KnownOnly {
		f.knownOnly = true
	}
	if !flags.Changed("colors") && cfg.Colors {
		f.colors = true
	}
	if !flags.Changed("recursive") && cfg.Recursive {
		f.recursive = true
	}
	if !flags.Changed("ext") && len(cfg.Extensions) > 0 {
		f.exts = cfg.Extensions
	}
	if !flags.Changed("exclude") && len(cfg.Exclude) > 0 {
		f.exclude = cfg.Exclude
	}
	f.palette = cfg.Palette
}

// dotOptions validates the mode and returns the marshalling options.
func (f *scanFlags) dotOptions() (dot.Options, error) {
	mode, err := dot.ParseMode(f.mode)
	if err != nil {
		return dot.Options{}, err
	}
	return dot.Options{Mode: mode, KnownOnly: f.knownOnly, Colors: f.colors}, nil
}

// scanDirs resolves the positional directory arguments, defaulting to the
// current directory.
func scanDirs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

// buildLibrary runs the scan for the shared flags and assigns colors when
// color mode is on.
func buildLibrary(ctx context.Context, f *scanFlags, dirs []string) (*source.Library, error) {
	if err := errors.ValidateGraphName(f.name); err != nil {
		return nil, err
	}
	for _, ext := range f.exts {
		if err := errors.ValidateExtension(ext); err != nil {
			return nil, err
		}
	}

	logger := loggerFromContext(ctx)

	c := openCache(f.noCache)
	defer c.Close()

	lib, err := source.Scan(ctx, f.name, dirs, source.ScanOptions{
		Recursive: f.recursive,
		Exts:      f.exts,
		Exclude:   f.exclude,
		Cache:     c,
		Logger:    logger.Debugf,
	})
	if err != nil {
		return nil, err
	}

	if f.colors {
		lib.AssignColors(f.palette)
	}
	return lib, nil
}

// newScanCmd creates the scan command: extract the graph without rendering
// it, as DOT or JSON, to stdout or a file.
func newScanCmd() *cobra.Command {
	var (
		flags  scanFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "scan [dirs...]",
		Short: "Scan directories and emit the include graph",
		Long: `Scan directories for include directives and write the graph description
without invoking a renderer.

Examples:
  incgraph scan src                     # DOT document to stdout
  incgraph scan -m module src lib       # collapse files to modules
  incgraph scan --format json -o g.json # JSON node/edge lists`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.applyConfig(cmd, configFromContext(cmd.Context()))
			return runScan(cmd.Context(), &flags, scanDirs(args), format, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "gv", "output format: gv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runScan scans, serializes, and writes to the chosen output.
func runScan(ctx context.Context, flags *scanFlags, dirs []string, format, output string) error {
	if format != "gv" && format != "json" {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown scan format %q (expected gv or json)", format)
	}

	opts, err := flags.dotOptions()
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	lib, err := buildLibrary(ctx, flags, dirs)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d files with %d includes", lib.Len(), lib.EdgeCount()))

	if format == "json" && output != "" {
		if err := source.ExportJSON(lib, output); err != nil {
			return err
		}
		logger.Infof("Wrote graph to %s", output)
		return nil
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if format == "json" {
		err = source.WriteJSON(lib, out)
	} else {
		_, err = out.Write([]byte(dot.Marshal(lib, opts)))
	}
	if err != nil {
		return err
	}

	if output != "" {
		logger.Infof("Wrote graph to %s", output)
	}
	return nil
}
