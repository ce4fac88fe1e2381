package metaview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// WriteText writes tree to w as indented, aligned rows under section headings.
// Collapsed sections show only their heading.
func WriteText(w io.Writer, t *Tree) error {
	width := 0
	for _, s := range t.Sections {
		for _, r := range s.Rows {
			width = max(width, lipgloss.Width(r.Label))
		}
	}

	for i, s := range t.Sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, sectionStyle.Render(s.Title)); err != nil {
			return err
		}
		if !s.Expanded {
			continue
		}
		for _, r := range s.Rows {
			label := labelStyle.Width(width).Render(r.Label)
			if _, err := fmt.Fprintf(w, "  %s : %s\n", label, r.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
