package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/incgraph/incgraph/pkg/source"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newBrowseCmd creates the browse command: an interactive include explorer
// over the scanned files.
func newBrowseCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "browse [dirs...]",
		Short: "Explore per-file includes interactively",
		Long: `Scan directories and browse the result in a terminal UI: every file with
its include count and how many targets resolve to scanned files, plus a
per-file detail view.

Keys: ↑/↓ or j/k to move, enter for details, esc to go back, q to quit.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.applyConfig(cmd, configFromContext(cmd.Context()))
			lib, err := buildLibrary(cmd.Context(), &flags, scanDirs(args))
			if err != nil {
				return err
			}
			if lib.Len() == 0 {
				printInfo("Nothing to browse: no files scanned")
				return nil
			}

			model := newBrowseModel(lib)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// browseModel is the bubbletea model for the include explorer. It has two
// screens: the file table and a per-file include detail.
type browseModel struct {
	lib    *source.Library
	cursor int
	offset int
	height int
	detail bool // showing the include detail of the file under the cursor
}

// newBrowseModel creates a browse model over lib.
func newBrowseModel(lib *source.Library) browseModel {
	return browseModel{lib: lib, height: 15}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.detail && m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if !m.detail && m.cursor < m.lib.Len()-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if !m.detail {
				m.detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.detail {
		return m.detailView()
	}
	return m.listView()
}

// resolvedCounts tallies how many of f's include targets name scanned
// files.
func (m browseModel) resolvedCounts(f source.File) (resolved, unresolved int) {
	for _, target := range f.Includes {
		if m.lib.Known(target) {
			resolved++
		} else {
			unresolved++
		}
	}
	return resolved, unresolved
}

// listView renders the scrolling file table.
func (m browseModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s — %d files, %d includes", m.lib.Name, m.lib.Len(), m.lib.EdgeCount())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > m.lib.Len() {
		end = m.lib.Len()
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		f := m.lib.Files[i]
		resolved, unresolved := m.resolvedCounts(f)

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			f.Base(),
			f.Dir,
			fmt.Sprintf("%d", len(f.Includes)),
			fmt.Sprintf("%d", resolved),
			fmt.Sprintf("%d", unresolved),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Directory", "Includes", "Resolved", "Unresolved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, m.lib.Len())))

	return b.String()
}

// detailView renders the include list of the file under the cursor.
func (m browseModel) detailView() string {
	f := m.lib.Files[m.cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(f.Path()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	if len(f.Includes) == 0 {
		b.WriteString(listDimStyle.Render("  no include directives"))
		b.WriteString("\n")
		return b.String()
	}

	for _, target := range f.Includes {
		if m.lib.Known(target) {
			b.WriteString("  " + StyleSuccess.Render(iconSuccess) + " " + listNormalStyle.Render(target))
		} else {
			b.WriteString("  " + listDimStyle.Render(iconInfo+" "+target+" (unresolved)"))
		}
		b.WriteString("\n")
	}

	return b.String()
}
