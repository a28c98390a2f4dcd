package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasknest/internal/notify"
)

// notificationsChangedMsg tells the UI to redraw the toast stack.
type notificationsChangedMsg struct{}

// waitForNotifications blocks until the center reports a change. The
// handler re-subscribes after every message.
func waitForNotifications(c *notify.Center) tea.Cmd {
	ch := c.Changes()
	return func() tea.Msg {
		<-ch
		return notificationsChangedMsg{}
	}
}
