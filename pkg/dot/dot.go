// Package dot serializes a scanned library as a Graphviz DOT document.
//
// The document mirrors the library literally: one edge statement per file in
// scan order, duplicate targets preserved, no cycle detection, no closure
// computation. Layout is left entirely to the render engine.
package dot

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/incgraph/incgraph/pkg/errors"
	"github.com/incgraph/incgraph/pkg/source"
)

// Mode selects the node granularity of the generated graph.
type Mode string

const (
	// ModeFile keeps one node per file, extension included.
	ModeFile Mode = "file"

	// ModeModule collapses files to their base name, stripping extensions
	// from include targets and suppressing the self-edges that collapsing
	// creates.
	ModeModule Mode = "module"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFile, ModeModule:
		return Mode(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "unknown graph mode %q (expected file or module)", s)
}

// Options configures document generation.
type Options struct {
	Mode      Mode // node granularity, defaults to ModeFile
	KnownOnly bool // drop edges whose target is not a scanned file
	Colors    bool // emit fill-color statements for files with assigned colors
}

// Marshal serializes the library as a DOT document. The graph name is the
// library name; statements appear in scan order so the output is stable
// across runs.
func Marshal(l *source.Library, opts Options) string {
	if opts.Mode == "" {
		opts.Mode = ModeFile
	}

	var known func(string) bool
	if opts.KnownOnly {
		known = l.Known
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quoteID(l.Name))

	if opts.Colors {
		writeColors(&buf, l, opts.Mode)
	}

	for _, f := range l.Files {
		if opts.Mode == ModeModule {
			buf.WriteString(ModuleStatement(f, known))
		} else {
			buf.WriteString(FileStatement(f, known))
		}
		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
	return buf.String()
}

// FileStatement renders the per-file edge statement for f:
//
//	"main.c" -> {"stdio.h" "util.h"}
//
// Targets keep their extension and files including themselves keep the
// self-edge. When known is non-nil, targets it rejects are dropped.
func FileStatement(f source.File, known func(string) bool) string {
	var targets []string
	for _, target := range f.Includes {
		if known != nil && !known(target) {
			continue
		}
		targets = append(targets, fmt.Sprintf("%q", target))
	}
	return fmt.Sprintf("%q -> {%s}", f.Base(), strings.Join(targets, " "))
}

// ModuleStatement renders the per-module edge statement for f:
//
//	"main" -> {"stdio" "util"}
//
// Include targets lose their extension, and edges back to f's own module
// are suppressed. The known filter tests the full target string before the
// extension comes off.
func ModuleStatement(f source.File, known func(string) bool) string {
	var targets []string
	for _, target := range f.Includes {
		base, _ := source.SplitExt(target)
		if base == f.Module() {
			continue
		}
		if known != nil && !known(target) {
			continue
		}
		targets = append(targets, fmt.Sprintf("%q", base))
	}
	return fmt.Sprintf("%q -> {%s}", f.Module(), strings.Join(targets, " "))
}

// writeColors emits one fill-color statement per node ahead of the edge
// statements. At module granularity every file of a module shares one
// color, so the statement is emitted once per module.
func writeColors(buf *bytes.Buffer, l *source.Library, mode Mode) {
	seen := make(map[string]bool, len(l.Files))
	for _, f := range l.Files {
		if f.Color == "" {
			continue
		}
		id := f.Base()
		if mode == ModeModule {
			id = f.Module()
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		fmt.Fprintf(buf, "%q [style=filled, fillcolor=%q];\n", id, f.Color)
	}
}

// bareIDRe matches graph names the layout tool accepts unquoted.
var bareIDRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quoteID returns name as a DOT identifier, quoted only when needed.
func quoteID(name string) string {
	if bareIDRe.MatchString(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}
