package dot

import (
	"strings"
	"testing"

	"github.com/incgraph/incgraph/pkg/errors"
	"github.com/incgraph/incgraph/pkg/source"
)

func testLibrary() *source.Library {
	return source.New("grapher", []source.File{
		{Name: "main", Ext: ".c", Includes: []string{"stdio.h", "util.h", "main.h"}},
		{Name: "main", Ext: ".h", Includes: []string{"util.h"}},
		{Name: "util", Ext: ".h"},
	})
}

func TestMarshal_FileMode(t *testing.T) {
	got := Marshal(testLibrary(), Options{Mode: ModeFile})

	want := `digraph grapher {
"main.c" -> {"stdio.h" "util.h" "main.h"}
"main.h" -> {"util.h"}
"util.h" -> {}
}
`
	if got != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestMarshal_ModuleMode(t *testing.T) {
	got := Marshal(testLibrary(), Options{Mode: ModeModule})

	// main.h collapses into module main, so the main.c -> main.h edge
	// becomes a suppressed self-edge
	want := `digraph grapher {
"main" -> {"stdio" "util"}
"main" -> {"util"}
"util" -> {}
}
`
	if got != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestMarshal_KnownOnly(t *testing.T) {
	t.Run("file mode", func(t *testing.T) {
		got := Marshal(testLibrary(), Options{Mode: ModeFile, KnownOnly: true})

		if strings.Contains(got, "stdio.h") {
			t.Errorf("known-only output kept unresolved target:\n%s", got)
		}
		if !strings.Contains(got, `"main.c" -> {"util.h" "main.h"}`) {
			t.Errorf("known-only output missing resolved edges:\n%s", got)
		}
	})

	t.Run("module mode", func(t *testing.T) {
		got := Marshal(testLibrary(), Options{Mode: ModeModule, KnownOnly: true})

		if strings.Contains(got, "stdio") {
			t.Errorf("known-only output kept unresolved target:\n%s", got)
		}
		if !strings.Contains(got, `"main" -> {"util"}`) {
			t.Errorf("known-only output missing resolved edge:\n%s", got)
		}
	})
}

func TestMarshal_Colors(t *testing.T) {
	l := testLibrary()
	l.AssignColors([]string{"red", "green"})

	t.Run("file mode", func(t *testing.T) {
		got := Marshal(l, Options{Mode: ModeFile, Colors: true})

		for _, stmt := range []string{
			`"main.c" [style=filled, fillcolor="red"];`,
			`"main.h" [style=filled, fillcolor="red"];`,
			`"util.h" [style=filled, fillcolor="green"];`,
		} {
			if !strings.Contains(got, stmt) {
				t.Errorf("output missing %s:\n%s", stmt, got)
			}
		}
	})

	t.Run("module mode emits one statement per module", func(t *testing.T) {
		got := Marshal(l, Options{Mode: ModeModule, Colors: true})

		if want := `"main" [style=filled, fillcolor="red"];`; strings.Count(got, want) != 1 {
			t.Errorf("want exactly one %s:\n%s", want, got)
		}
		if want := `"util" [style=filled, fillcolor="green"];`; strings.Count(got, want) != 1 {
			t.Errorf("want exactly one %s:\n%s", want, got)
		}
	})

	t.Run("colors off", func(t *testing.T) {
		got := Marshal(l, Options{Mode: ModeFile})

		if strings.Contains(got, "fillcolor") {
			t.Errorf("colors disabled but output has fill statements:\n%s", got)
		}
	})
}

func TestMarshal_QuotedName(t *testing.T) {
	l := source.New("my-graph", nil)
	got := Marshal(l, Options{})

	if !strings.HasPrefix(got, `digraph "my-graph" {`) {
		t.Errorf("hyphenated graph name should be quoted:\n%s", got)
	}
}

func TestFileStatement(t *testing.T) {
	tests := []struct {
		name string
		file source.File
		want string
	}{
		{
			name: "plain",
			file: source.File{Name: "a", Ext: ".c", Includes: []string{"b.h", "c.h"}},
			want: `"a.c" -> {"b.h" "c.h"}`,
		},
		{
			name: "no includes",
			file: source.File{Name: "a", Ext: ".h"},
			want: `"a.h" -> {}`,
		},
		{
			name: "duplicates preserved",
			file: source.File{Name: "a", Ext: ".c", Includes: []string{"b.h", "b.h"}},
			want: `"a.c" -> {"b.h" "b.h"}`,
		},
		{
			name: "self include kept at file granularity",
			file: source.File{Name: "a", Ext: ".c", Includes: []string{"a.c"}},
			want: `"a.c" -> {"a.c"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileStatement(tt.file, nil); got != tt.want {
				t.Errorf("FileStatement() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestModuleStatement(t *testing.T) {
	tests := []struct {
		name string
		file source.File
		want string
	}{
		{
			name: "extensions stripped",
			file: source.File{Name: "a", Ext: ".c", Includes: []string{"b.h", "sys/time.h"}},
			want: `"a" -> {"b" "sys/time"}`,
		},
		{
			name: "self edge suppressed",
			file: source.File{Name: "a", Ext: ".c", Includes: []string{"a.h", "b.h"}},
			want: `"a" -> {"b"}`,
		},
		{
			name: "no includes",
			file: source.File{Name: "a", Ext: ".c"},
			want: `"a" -> {}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModuleStatement(tt.file, nil); got != tt.want {
				t.Errorf("ModuleStatement() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("file"); err != nil {
		t.Errorf("ParseMode(file) error: %v", err)
	}
	if _, err := ParseMode("module"); err != nil {
		t.Errorf("ParseMode(module) error: %v", err)
	}

	_, err := ParseMode("detailed")
	if err == nil {
		t.Fatal("ParseMode(detailed) should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidMode)
	}
}

func TestQuoteID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"grapher", "grapher"},
		{"_private", "_private"},
		{"g2", "g2"},
		{"my-graph", `"my-graph"`},
		{"my graph", `"my graph"`},
		{"2fast", `"2fast"`},
		{"", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := quoteID(tt.in); got != tt.want {
				t.Errorf("quoteID(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
