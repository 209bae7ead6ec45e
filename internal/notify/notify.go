// Package notify is the dashboard's transient message channel.
//
// Every notification has two dismissal triggers, the 5s auto-dismiss tick
// and a manual Dismiss. Both funnel into one guarded dismissal: the first
// trigger marks the notification hiding and schedules its removal after a
// short grace period; any later trigger is a no-op.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/abelbrown/medview/internal/otel"
)

const (
	// AutoDismissAfter is how long a notification stays before dismissing itself.
	AutoDismissAfter = 5000 * time.Millisecond
	// HideGrace is how long a dismissed notification stays in the hiding state.
	HideGrace = 300 * time.Millisecond
)

// Notification is one visible message.
type Notification struct {
	ID        string
	Message   string
	CreatedAt time.Time
	Hiding    bool
}

// Notifier is what other components need to raise a message.
type Notifier interface {
	Notify(message string) tea.Cmd
}

// autoDismissMsg fires AutoDismissAfter after creation.
type autoDismissMsg struct{ id string }

// removeMsg fires HideGrace after the first dismissal trigger.
type removeMsg struct{ id string }

// Channel owns the live notifications. Like every bubbletea model it is
// only touched from the Update loop.
type Channel struct {
	items   []*Notification
	now     func() time.Time
	events  *otel.Logger
	removed int
}

// New creates an empty channel. events may be nil.
func New(events *otel.Logger) *Channel {
	return &Channel{now: time.Now, events: events}
}

// Notify appends a notification and returns the auto-dismiss tick.
func (c *Channel) Notify(message string) tea.Cmd {
	n := &Notification{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: c.now(),
	}
	c.items = append(c.items, n)
	c.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindNotify, Comp: "notify", Msg: message})

	id := n.ID
	return tea.Tick(AutoDismissAfter, func(time.Time) tea.Msg {
		return autoDismissMsg{id: id}
	})
}

// Dismiss is the manual trigger. Returns nil when id is unknown or
// already dismissed.
func (c *Channel) Dismiss(id string) tea.Cmd {
	return c.dismiss(id, "manual")
}

// DismissNewest manually dismisses the most recent visible notification.
func (c *Channel) DismissNewest() tea.Cmd {
	for i := len(c.items) - 1; i >= 0; i-- {
		if !c.items[i].Hiding {
			return c.dismiss(c.items[i].ID, "manual")
		}
	}
	return nil
}

func (c *Channel) dismiss(id, trigger string) tea.Cmd {
	n := c.find(id)
	if n == nil || n.Hiding {
		return nil
	}
	n.Hiding = true
	c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindDismiss, Comp: "notify", Msg: trigger})

	return tea.Tick(HideGrace, func(time.Time) tea.Msg {
		return removeMsg{id: id}
	})
}

// Update consumes the channel's own timer messages. handled is false for
// any other message.
func (c *Channel) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case autoDismissMsg:
		return true, c.dismiss(msg.id, "auto")
	case removeMsg:
		c.remove(msg.id)
		return true, nil
	}
	return false, nil
}

func (c *Channel) remove(id string) {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.removed++
			return
		}
	}
}

func (c *Channel) find(id string) *Notification {
	for _, n := range c.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Live returns copies of the current notifications, oldest first,
// including ones that are hiding.
func (c *Channel) Live() []Notification {
	out := make([]Notification, len(c.items))
	for i, n := range c.items {
		out[i] = *n
	}
	return out
}

// Len returns the number of live notifications.
func (c *Channel) Len() int {
	return len(c.items)
}

// Removed returns how many notifications have been removed so far.
func (c *Channel) Removed() int {
	return c.removed
}
