package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type graph struct {
	Name  string `json:"name"`
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Ext      string   `json:"ext,omitempty"`
	Dir      string   `json:"dir"`
	Color    string   `json:"color,omitempty"`
	Includes []string `json:"includes,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a library as JSON and writes it to w. Nodes are files
// at file granularity with their metadata; edges repeat the include lists
// as from/to pairs, one per directive, unknown targets included. Module
// collapsing is a rendering concern and is not applied here.
func WriteJSON(l *Library, w io.Writer) error {
	out := graph{
		Name:  l.Name,
		Nodes: make([]node, len(l.Files)),
		Edges: make([]edge, 0, l.EdgeCount()),
	}

	for i, f := range l.Files {
		out.Nodes[i] = node{
			ID:       f.Base(),
			Name:     f.Name,
			Ext:      f.Ext,
			Dir:      f.Dir,
			Color:    f.Color,
			Includes: f.Includes,
		}
		for _, target := range f.Includes {
			out.Edges = append(out.Edges, edge{From: f.Base(), To: target})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a library to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(l *Library, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}
