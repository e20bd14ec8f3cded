package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/incgraph/incgraph/pkg/errors"
	"github.com/incgraph/incgraph/pkg/render"
)

// newRenderCmd creates the render command for an existing description
// file, so a graph can be re-rendered without rescanning.
func newRenderCmd() *cobra.Command {
	var (
		format string
		engine string
		output string
		open   bool
	)

	cmd := &cobra.Command{
		Use:   "render <file.gv>",
		Short: "Render an existing graph description file",
		Long: `Render a previously written DOT description to an artifact.

Examples:
  incgraph render grapher.gv                # grapher.pdf next to the input
  incgraph render -f png grapher.gv         # PNG instead
  incgraph render -o out/deps.svg grapher.gv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenderFile(cmd, args[0], format, engine, output, open)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatPDF), "output format: pdf, svg, or png")
	cmd.Flags().StringVar(&engine, "engine", string(render.EngineDot), "layout engine: dot or embedded")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path or directory (next to the input if empty)")
	cmd.Flags().BoolVar(&open, "open", false, "open the artifact in the default viewer")

	return cmd
}

func runRenderFile(cmd *cobra.Command, input, format, engine, output string, open bool) error {
	cfg := configFromContext(cmd.Context())
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		format = cfg.Format
	}
	if !cmd.Flags().Changed("engine") && cfg.Engine != "" {
		engine = cfg.Engine
	}

	fmtParsed, err := render.ParseFormat(format)
	if err != nil {
		return err
	}
	if fmtParsed == render.FormatGV {
		return errors.New(errors.ErrCodeInvalidFormat, "input is already a description file, choose pdf, svg, or png")
	}
	engParsed, err := render.ParseEngine(engine)
	if err != nil {
		return err
	}

	dotSrc, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
	}

	dir, name := outputTarget(input, output, fmtParsed)

	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)
	result, err := render.Render(cmd.Context(), dotSrc, name, render.Options{
		Format:          fmtParsed,
		Engine:          engParsed,
		Dir:             dir,
		Open:            open,
		DescriptionPath: input,
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + result.ArtifactPath)

	printSuccess("Graph rendered")
	printFile(result.ArtifactPath)
	return nil
}

// outputTarget derives the render directory and graph name from the input
// path and the --output flag. An output ending in the chosen format is a
// full path; anything else is treated as a directory.
func outputTarget(input, output string, format render.Format) (dir, name string) {
	if output == "" {
		return filepath.Dir(input), trimExt(filepath.Base(input))
	}
	if strings.HasSuffix(output, "."+string(format)) {
		return filepath.Dir(output), trimExt(filepath.Base(output))
	}
	return output, trimExt(filepath.Base(input))
}

// trimExt strips the final extension, if any.
func trimExt(base string) string {
	return strings.TrimSuffix(base, filepath.Ext(base))
}
