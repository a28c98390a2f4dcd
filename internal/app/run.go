package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasknest/internal/domain"
	"github.com/nhle/tasknest/internal/notify"
)

// Run starts the terminal UI and blocks until the user quits or ctx is
// cancelled. The notification expiry loop runs for the program's lifetime.
func Run(ctx context.Context, s *domain.Store, c *notify.Center, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.Run(ctx)

	p := tea.NewProgram(New(s, c, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
