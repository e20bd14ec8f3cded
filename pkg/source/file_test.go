package source

import "testing"

func TestSplitExt(t *testing.T) {
	tests := []struct {
		path string
		base string
		ext  string
	}{
		{"main.c", "main", ".c"},
		{"gpr_err.h", "gpr_err", ".h"},
		{"Makefile", "Makefile", ""},
		{".gitignore", ".gitignore", ""},
		{".config.toml", ".config", ".toml"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"sys/time.h", "sys/time", ".h"},
		{"a.b/c", "a.b/c", ""},
		{"trailing.", "trailing", "."},
		{"..", "..", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			base, ext := SplitExt(tt.path)
			if base != tt.base || ext != tt.ext {
				t.Errorf("SplitExt(%q) = (%q, %q), want (%q, %q)", tt.path, base, ext, tt.base, tt.ext)
			}
		})
	}
}

func TestFileAccessors(t *testing.T) {
	f := File{Name: "gpr_err", Ext: ".c", Dir: "src"}

	if got := f.Base(); got != "gpr_err.c" {
		t.Errorf("Base() = %q, want %q", got, "gpr_err.c")
	}
	if got := f.Module(); got != "gpr_err" {
		t.Errorf("Module() = %q, want %q", got, "gpr_err")
	}
	if got := f.Path(); got != "src/gpr_err.c" {
		t.Errorf("Path() = %q, want %q", got, "src/gpr_err.c")
	}
}

func TestFileAccessorsNoExt(t *testing.T) {
	f := File{Name: "Makefile", Dir: "."}

	if got := f.Base(); got != "Makefile" {
		t.Errorf("Base() = %q, want %q", got, "Makefile")
	}
	if got := f.Module(); got != "Makefile" {
		t.Errorf("Module() = %q, want %q", got, "Makefile")
	}
}
