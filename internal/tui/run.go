package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the watch screen until the user quits or ctx is canceled.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	if cfg.Builder == nil {
		return errors.New("tui: builder is required")
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, cfg), opts...)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("watch screen failed: %w", err)
	}
	return nil
}
