package source

import (
	"path/filepath"
	"strings"
)

// File is one scanned source file and its extracted include targets.
type File struct {
	Name     string   // base name with the extension stripped
	Ext      string   // extension including the leading dot, empty when none
	Dir      string   // directory the file was found in
	Color    string   // fill color assigned by AssignColors, empty otherwise
	Includes []string // include targets in order of appearance
}

// Base returns the file name with its extension.
func (f File) Base() string { return f.Name + f.Ext }

// Module returns the node identity at module granularity: the base name
// alone, which collapses same-named files across extensions and directories.
func (f File) Module() string { return f.Name }

// Path returns the file's location on disk.
func (f File) Path() string { return filepath.Join(f.Dir, f.Base()) }

// SplitExt splits path into the part before the extension and the extension
// itself. Only the final path element is considered, and leading dots never
// start an extension, so dot-files keep their full name:
//
//	SplitExt("main.c")       // "main", ".c"
//	SplitExt("sys/time.h")   // "sys/time", ".h"
//	SplitExt(".gitignore")   // ".gitignore", ""
//	SplitExt("archive.tar.gz") // "archive.tar", ".gz"
func SplitExt(path string) (string, string) {
	i := strings.LastIndexByte(path, '/') + 1
	j := i
	for j < len(path) && path[j] == '.' {
		j++
	}
	if dot := strings.LastIndexByte(path[j:], '.'); dot != -1 {
		k := j + dot
		return path[:k], path[k:]
	}
	return path, ""
}
