package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/incgraph/incgraph/pkg/source"
)

func browseFixture() *source.Library {
	return source.New("demo", []source.File{
		{Name: "app", Ext: ".h", Dir: "src", Includes: []string{"util.h"}},
		{Name: "main", Ext: ".c", Dir: "src", Includes: []string{"stdio.h", "app.h"}},
		{Name: "util", Ext: ".h", Dir: "src"},
	})
}

func keyMsg(key string) tea.KeyMsg {
	if len(key) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{}
}

func TestBrowseNavigation(t *testing.T) {
	m := newBrowseModel(browseFixture())

	next, _ := m.Update(keyMsg("down"))
	m = next.(browseModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.cursor)
	}

	next, _ = m.Update(keyMsg("j"))
	m = next.(browseModel)
	next, _ = m.Update(keyMsg("j"))
	m = next.(browseModel)
	if m.cursor != 2 {
		t.Errorf("cursor = %d, should clamp at last file", m.cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(browseModel)
	next, _ = m.Update(keyMsg("k"))
	m = next.(browseModel)
	next, _ = m.Update(keyMsg("k"))
	m = next.(browseModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, should clamp at first file", m.cursor)
	}
}

func TestBrowseDetailToggle(t *testing.T) {
	m := newBrowseModel(browseFixture())

	next, _ := m.Update(keyMsg("enter"))
	m = next.(browseModel)
	if !m.detail {
		t.Fatal("enter should open the detail view")
	}

	next, _ = m.Update(keyMsg("esc"))
	m = next.(browseModel)
	if m.detail {
		t.Fatal("esc should close the detail view")
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newBrowseModel(browseFixture())
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestBrowseListView(t *testing.T) {
	m := newBrowseModel(browseFixture())
	view := m.View()

	for _, want := range []string{"demo", "main.c", "app.h", "util.h"} {
		if !strings.Contains(view, want) {
			t.Errorf("list view missing %q", want)
		}
	}
}

func TestBrowseDetailView(t *testing.T) {
	m := newBrowseModel(browseFixture())

	// Move to main.c and open its detail.
	next, _ := m.Update(keyMsg("down"))
	m = next.(browseModel)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(browseModel)

	view := m.View()
	if !strings.Contains(view, "stdio.h") || !strings.Contains(view, "app.h") {
		t.Errorf("detail view missing include targets:\n%s", view)
	}
	if !strings.Contains(view, "unresolved") {
		t.Errorf("stdio.h should be marked unresolved:\n%s", view)
	}
}

func TestResolvedCounts(t *testing.T) {
	m := newBrowseModel(browseFixture())

	resolved, unresolved := m.resolvedCounts(m.lib.Files[1]) // main.c
	if resolved != 1 || unresolved != 1 {
		t.Errorf("resolvedCounts(main.c) = %d, %d, want 1, 1", resolved, unresolved)
	}

	resolved, unresolved = m.resolvedCounts(m.lib.Files[2]) // util.h
	if resolved != 0 || unresolved != 0 {
		t.Errorf("resolvedCounts(util.h) = %d, %d, want 0, 0", resolved, unresolved)
	}
}
