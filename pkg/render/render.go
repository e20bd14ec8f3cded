// Package render turns DOT documents into viewable artifacts.
//
// Layout always runs through Graphviz, never in-process math. The default
// engine shells out to the dot executable; the embedded engine uses the
// bundled Graphviz build instead and needs rsvg-convert on PATH for pdf
// and png output.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/goccy/go-graphviz"

	"github.com/incgraph/incgraph/pkg/errors"
)

// Format is an output artifact type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatGV  Format = "gv" // write the graph description only
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF, FormatSVG, FormatPNG, FormatGV:
		return Format(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (expected pdf, svg, png, or gv)", s)
}

// Engine selects how layout runs.
type Engine string

const (
	// EngineDot shells out to the Graphviz dot executable.
	EngineDot Engine = "dot"

	// EngineEmbedded lays out with the bundled Graphviz build.
	EngineEmbedded Engine = "embedded"
)

// ParseEngine validates an engine string.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineDot, EngineEmbedded:
		return Engine(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidEngine, "unknown engine %q (expected dot or embedded)", s)
}

// Options configures Render.
type Options struct {
	Format  Format // artifact type, defaults to FormatPDF
	Engine  Engine // layout engine, defaults to EngineDot
	Dir     string // output directory, defaults to the current directory
	Cleanup bool   // remove the intermediate .gv after a successful render
	Open    bool   // open the artifact with the platform default viewer

	// DescriptionPath points at an existing .gv file to lay out. When set,
	// Render neither writes nor removes a description of its own; the file
	// belongs to the caller. Cleanup is ignored.
	DescriptionPath string
}

// Result reports what Render produced.
type Result struct {
	DOTPath      string // graph description on disk, empty after cleanup
	ArtifactPath string // rendered artifact
}

// Render writes dotSrc to <name>.gv under opts.Dir and produces the
// requested artifact next to it. A missing layout tool removes the
// just-written description again, so a failed run leaves no half-results
// behind. Descriptions supplied via opts.DescriptionPath are never
// touched, only read.
func Render(ctx context.Context, dotSrc []byte, name string, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	if opts.Engine == "" {
		opts.Engine = EngineDot
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output dir %s", opts.Dir)
		}
	}

	gvPath := opts.DescriptionPath
	owned := gvPath == ""
	if owned {
		gvPath = filepath.Join(opts.Dir, name+".gv")
		if err := os.WriteFile(gvPath, dotSrc, 0644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", gvPath)
		}
	}

	if opts.Format == FormatGV {
		return &Result{DOTPath: gvPath, ArtifactPath: gvPath}, nil
	}

	outPath := filepath.Join(opts.Dir, name+"."+string(opts.Format))
	var err error
	if opts.Engine == EngineEmbedded {
		err = renderEmbedded(ctx, dotSrc, outPath, opts.Format)
	} else {
		err = renderDot(ctx, gvPath, outPath, opts.Format)
	}
	if err != nil {
		if owned && (errors.Is(err, errors.ErrCodeRendererNotFound) || errors.Is(err, errors.ErrCodeConverterNotFound)) {
			_ = os.Remove(gvPath)
		}
		return nil, err
	}

	result := &Result{DOTPath: gvPath, ArtifactPath: outPath}
	if opts.Cleanup && owned {
		if err := os.Remove(gvPath); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "cleanup %s", gvPath)
		}
		result.DOTPath = ""
	}

	if opts.Open {
		if err := OpenViewer(ctx, result.ArtifactPath); err != nil {
			return result, err
		}
	}

	return result, nil
}

// renderDot runs the external layout tool on the description file.
func renderDot(ctx context.Context, gvPath, outPath string, format Format) error {
	dotBin, err := exec.LookPath("dot")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRendererNotFound, err,
			"dot executable not found, consider installing Graphviz (https://graphviz.org/download/)")
	}

	cmd := exec.CommandContext(ctx, dotBin, "-T"+string(format), gvPath, "-o", outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "dot -T%s: %s", format, stderr.String())
	}
	return nil
}

// renderEmbedded lays out in-process and converts the SVG when needed.
func renderEmbedded(ctx context.Context, dotSrc []byte, outPath string, format Format) error {
	svg, err := layoutSVG(ctx, dotSrc)
	if err != nil {
		return err
	}

	data := svg
	switch format {
	case FormatPDF:
		data, err = ToPDF(ctx, svg)
	case FormatPNG:
		data, err = ToPNG(ctx, svg, 2.0)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", outPath)
	}
	return nil
}

// SVG lays out dotSrc and returns the SVG bytes without touching disk.
// The HTTP server uses this for on-demand rendering.
func SVG(ctx context.Context, dotSrc []byte, engine Engine) ([]byte, error) {
	if engine == EngineEmbedded {
		return layoutSVG(ctx, dotSrc)
	}

	dotBin, err := exec.LookPath("dot")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererNotFound, err,
			"dot executable not found, consider installing Graphviz (https://graphviz.org/download/)")
	}

	cmd := exec.CommandContext(ctx, dotBin, "-Tsvg")
	cmd.Stdin = bytes.NewReader(dotSrc)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "dot -Tsvg: %s", stderr.String())
	}
	return out.Bytes(), nil
}

// layoutSVG renders DOT to SVG with the bundled Graphviz build.
func layoutSVG(ctx context.Context, dotSrc []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dotSrc)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
