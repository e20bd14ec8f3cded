package source

import (
	"reflect"
	"testing"
)

func TestKnown(t *testing.T) {
	l := New("test", []File{
		{Name: "main", Ext: ".c"},
		{Name: "util", Ext: ".h"},
		{Name: "Makefile"},
	})

	tests := []struct {
		target string
		want   bool
	}{
		{"main.c", true},
		{"util.h", true},
		{"Makefile", true},
		{"main", false},
		{"util.c", false},
		{"stdio.h", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := l.Known(tt.target); got != tt.want {
				t.Errorf("Known(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestAssignColors(t *testing.T) {
	l := New("test", []File{
		{Name: "main", Ext: ".c", Dir: "src"},
		{Name: "util", Ext: ".h", Dir: "src"},
		{Name: "main", Ext: ".h", Dir: "include"},
		{Name: "extra", Ext: ".c", Dir: "src"},
	})

	palette := []string{"red", "green", "blue"}
	l.AssignColors(palette)

	// First-seen module order decides the palette index
	if got := l.Files[0].Color; got != "red" {
		t.Errorf("main.c color = %q, want %q", got, "red")
	}
	if got := l.Files[1].Color; got != "green" {
		t.Errorf("util.h color = %q, want %q", got, "green")
	}
	// Same module name reuses the color across directories and extensions
	if got := l.Files[2].Color; got != "red" {
		t.Errorf("include/main.h color = %q, want %q", got, "red")
	}
	if got := l.Files[3].Color; got != "blue" {
		t.Errorf("extra.c color = %q, want %q", got, "blue")
	}
}

func TestAssignColorsCycles(t *testing.T) {
	l := New("test", []File{
		{Name: "a", Ext: ".c"},
		{Name: "b", Ext: ".c"},
		{Name: "c", Ext: ".c"},
	})

	l.AssignColors([]string{"red", "green"})

	if got := l.Files[2].Color; got != "red" {
		t.Errorf("third module color = %q, want palette to cycle back to %q", got, "red")
	}
}

func TestAssignColorsDefaultPalette(t *testing.T) {
	l := New("test", []File{{Name: "a", Ext: ".c"}})
	l.AssignColors(nil)

	if got := l.Files[0].Color; got != Palette[0] {
		t.Errorf("color = %q, want default palette first entry %q", got, Palette[0])
	}
}

func TestModules(t *testing.T) {
	l := New("test", []File{
		{Name: "main", Ext: ".c"},
		{Name: "util", Ext: ".h"},
		{Name: "main", Ext: ".h"},
	})

	want := []string{"main", "util"}
	if got := l.Modules(); !reflect.DeepEqual(got, want) {
		t.Errorf("Modules() = %v, want %v", got, want)
	}
}

func TestEdgeCount(t *testing.T) {
	l := New("test", []File{
		{Name: "main", Ext: ".c", Includes: []string{"stdio.h", "util.h", "util.h"}},
		{Name: "util", Ext: ".h"},
	})

	if got := l.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3 (duplicates included)", got)
	}
}

func TestUnresolved(t *testing.T) {
	l := New("test", []File{
		{Name: "main", Ext: ".c", Includes: []string{"stdio.h", "util.h", "stdlib.h"}},
		{Name: "util", Ext: ".h", Includes: []string{"stdio.h"}},
	})

	want := []string{"stdio.h", "stdlib.h"}
	if got := l.Unresolved(); !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved() = %v, want %v", got, want)
	}
}
