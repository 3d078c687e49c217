package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// PlainDate formats an optional date, "--" when undefined.
func PlainDate(t *time.Time) string {
	if t == nil {
		return "--"
	}
	return t.UTC().Format(dateLayout)
}

// DateCell is PlainDate styled for tables: undefined dates are dimmed.
func DateCell(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return StyleFg.Render(PlainDate(t))
}

// EndCell renders a completion date; an undefined one means still open.
func EndCell(t *time.Time) string {
	if t == nil {
		return StyleYellow.Render("open")
	}
	return StyleGreen.Render(PlainDate(t))
}
