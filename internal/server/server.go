// Package server exposes a scanned include graph over HTTP.
//
// The serve command keeps one Server updated from filesystem watch batches;
// every handler reads the current snapshot, so a request always sees a
// consistent graph even while a rescan is swapping in the next one.
// Responses carry strong ETags derived from the DOT source, letting
// browsers poll cheaply with If-None-Match.
package server

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/incgraph/incgraph/pkg/cache"
	"github.com/incgraph/incgraph/pkg/dot"
	"github.com/incgraph/incgraph/pkg/source"
)

// SVGRenderer lays out a DOT document and returns SVG bytes. The CLI wires
// in pkg/render; tests inject a stub.
type SVGRenderer func(r *http.Request, dotSrc []byte) ([]byte, error)

// snapshot is one immutable view of the scanned graph.
type snapshot struct {
	library *source.Library
	dotSrc  []byte
	etag    string
}

// Server serves the current include graph. Update swaps snapshots; all
// other methods only read them.
type Server struct {
	render SVGRenderer
	logger *log.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// New creates a server rendering SVG through render. A nil logger falls
// back to log.Default().
func New(render SVGRenderer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{render: render, logger: logger}
}

// Update replaces the served graph. The DOT document is marshalled once
// here, not per request.
func (s *Server) Update(l *source.Library, opts dot.Options) {
	dotSrc := []byte(dot.Marshal(l, opts))
	snap := &snapshot{
		library: l,
		dotSrc:  dotSrc,
		etag:    fmt.Sprintf("%q", cache.Hash(dotSrc)),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Debugf("snapshot updated: %d files, %d edges", l.Len(), l.EdgeCount())
}

// current returns the active snapshot, or nil before the first Update.
func (s *Server) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/graph.gv", s.handleDOT)
	r.Get("/graph.json", s.handleJSON)
	r.Get("/healthz", s.handleHealth)

	return r
}

// serveSnapshot handles the shared ETag negotiation and returns the
// snapshot to render, or nil when the response is already written.
func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) *snapshot {
	snap := s.current()
	if snap == nil {
		http.Error(w, "graph not scanned yet", http.StatusServiceUnavailable)
		return nil
	}

	w.Header().Set("ETag", snap.etag)
	if r.Header.Get("If-None-Match") == snap.etag {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}
	return snap
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} — include graph</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
header { color: #555; margin-bottom: 1rem; }
object { width: 100%; border: 1px solid #ddd; }
</style>
</head>
<body>
<header>
<h1>{{.Name}}</h1>
<p>{{.Files}} files · {{.Edges}} includes ·
<a href="/graph.gv">DOT</a> · <a href="/graph.json">JSON</a> · <a href="/graph.svg">SVG</a></p>
</header>
<object type="image/svg+xml" data="/graph.svg"></object>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.serveSnapshot(w, r)
	if snap == nil {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Name  string
		Files int
		Edges int
	}{snap.library.Name, snap.library.Len(), snap.library.EdgeCount()}
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Errorf("render index: %v", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	snap := s.serveSnapshot(w, r)
	if snap == nil {
		return
	}

	svg, err := s.render(r, snap.dotSrc)
	if err != nil {
		s.logger.Errorf("render svg: %v", err)
		http.Error(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	snap := s.serveSnapshot(w, r)
	if snap == nil {
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write(snap.dotSrc)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.serveSnapshot(w, r)
	if snap == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := source.WriteJSON(snap.library, w); err != nil {
		s.logger.Errorf("write json: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.current() == nil {
		status = "scanning"
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":%q}`+"\n", status)
}
