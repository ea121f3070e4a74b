package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Notification is the single transient banner used for all user-facing
// outcome messages. Every Show bumps a generation counter and arms a fresh
// auto-hide timer stamped with that generation; a stale timer firing after a
// newer Show is ignored, so replacing the banner text never hides it early.
type Notification struct {
	kind    NotificationKind
	text    string
	visible bool
	gen     int
	ttl     time.Duration
}

// NewNotification creates a hidden banner with the given auto-hide TTL.
func NewNotification(ttl time.Duration) *Notification {
	return &Notification{ttl: ttl}
}

// Show displays text with the given kind and returns the auto-hide timer cmd.
func (n *Notification) Show(kind NotificationKind, text string) tea.Cmd {
	n.gen++
	n.kind = kind
	n.text = text
	n.visible = true
	gen := n.gen
	return tea.Tick(n.ttl, func(time.Time) tea.Msg {
		return hideNotificationMsg{Gen: gen}
	})
}

// Hide dismisses the banner immediately.
func (n *Notification) Hide() {
	n.visible = false
}

// Update consumes auto-hide timer messages. Other messages are ignored.
func (n *Notification) Update(msg tea.Msg) {
	if hide, ok := msg.(hideNotificationMsg); ok && hide.Gen == n.gen {
		n.visible = false
	}
}

// Visible reports whether the banner is currently shown.
func (n *Notification) Visible() bool {
	return n.visible
}

// Text returns the current banner text.
func (n *Notification) Text() string {
	return n.text
}

// Kind returns the current banner kind.
func (n *Notification) Kind() NotificationKind {
	return n.kind
}

// View renders the banner, or an empty string when hidden.
func (n *Notification) View() string {
	if !n.visible {
		return ""
	}
	switch n.kind {
	case NoticeSuccess:
		return Styles.BannerSuccess.Render("✓ " + n.text)
	case NoticeError:
		return Styles.BannerError.Render("✗ " + n.text)
	default:
		return Styles.BannerInfo.Render(n.text)
	}
}
