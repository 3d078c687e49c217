package cli

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func cadenceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(cadenceHuhTheme()).WithShowHelp(false)
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// confirmAction returns true when the user passed --yes or agreed at the
// prompt. Without a terminal it refuses instead of prompting.
func confirmAction(app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if app.IsInteractive == nil || !app.IsInteractive() {
		return false, fmt.Errorf("refusing to continue without --yes in a non-interactive session")
	}
	confirm := app.Confirm
	if confirm == nil {
		confirm = huhConfirm
	}
	return confirm(title)
}
