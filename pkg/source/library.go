// Package source models a scanned codebase as a flat list of files with
// their include targets. It performs no resolution and no graph analysis:
// a library is exactly what was found on disk, in a deterministic order,
// ready to be serialized by the dot package.
package source

// Palette is the default fill-color cycle for color mode. Light X11 scheme
// names keep node labels legible on filled nodes.
var Palette = []string{
	"lightblue",
	"lightyellow",
	"lightpink",
	"palegreen",
	"lavender",
	"peachpuff",
	"lightcyan",
	"mistyrose",
	"thistle",
	"honeydew",
	"cornsilk",
	"aliceblue",
}

// Library owns the scanned files of one or more directories.
type Library struct {
	Name  string // graph name, used for the DOT header and output files
	Files []File // scan order: directories as given, entries lexical

	known map[string]bool
}

// New builds a library from already-collected files.
func New(name string, files []File) *Library {
	l := &Library{Name: name, Files: files}
	l.known = make(map[string]bool, len(files))
	for _, f := range files {
		l.known[f.Base()] = true
	}
	return l
}

// Known reports whether target names a scanned file. Matching is exact
// against base name plus extension.
func (l *Library) Known(target string) bool {
	return l.known[target]
}

// Len returns the number of scanned files.
func (l *Library) Len() int {
	return len(l.Files)
}

// EdgeCount returns the total number of include references across all
// files, duplicates included.
func (l *Library) EdgeCount() int {
	n := 0
	for _, f := range l.Files {
		n += len(f.Includes)
	}
	return n
}

// Modules returns the distinct module names in first-seen order.
func (l *Library) Modules() []string {
	seen := make(map[string]bool, len(l.Files))
	var modules []string
	for _, f := range l.Files {
		if !seen[f.Name] {
			seen[f.Name] = true
			modules = append(modules, f.Name)
		}
	}
	return modules
}

// Unresolved returns the include targets that do not name any scanned file,
// in first-seen order. These are the edges known-only filtering would hide.
func (l *Library) Unresolved() []string {
	seen := make(map[string]bool)
	var targets []string
	for _, f := range l.Files {
		for _, target := range f.Includes {
			if l.known[target] || seen[target] {
				continue
			}
			seen[target] = true
			targets = append(targets, target)
		}
	}
	return targets
}

// AssignColors gives every file a fill color keyed by its module name, so
// same-named files share one color across extensions and directories.
// Colors are taken from palette in first-seen order and cycle when the
// palette is exhausted. An empty palette falls back to Palette.
func (l *Library) AssignColors(palette []string) {
	if len(palette) == 0 {
		palette = Palette
	}

	assigned := make(map[string]string)
	next := 0
	for i := range l.Files {
		f := &l.Files[i]
		color, ok := assigned[f.Name]
		if !ok {
			color = palette[next%len(palette)]
			assigned[f.Name] = color
			next++
		}
		f.Color = color
	}
}
