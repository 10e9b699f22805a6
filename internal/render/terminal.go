package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/swaggyashwin/pathfinder/internal/model"
)

// Terminal renders Markdown for display in a terminal.
type Terminal struct {
	renderer *glamour.TermRenderer
}

// NewTerminal creates a terminal renderer that picks a style for the current
// terminal and wraps at width columns.
func NewTerminal(width int) (*Terminal, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Terminal{renderer: renderer}, nil
}

// Render renders a Markdown document.
func (t *Terminal) Render(markdown string) (string, error) {
	out, err := t.renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// Roadmap renders rm for the terminal.
func (t *Terminal) Roadmap(rm *model.Roadmap) (string, error) {
	return t.Render(Markdown(rm))
}
