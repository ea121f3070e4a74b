package ui

import (
	"testing"
	"time"
)

func TestNotification_ShowAndAutoHide(t *testing.T) {
	n := NewNotification(time.Second)
	if n.Visible() {
		t.Fatal("new banner should be hidden")
	}

	cmd := n.Show(NoticeSuccess, "Student added successfully!")
	if !n.Visible() {
		t.Fatal("expected banner visible after Show")
	}
	if n.Text() != "Student added successfully!" || n.Kind() != NoticeSuccess {
		t.Errorf("unexpected banner state: %q kind=%v", n.Text(), n.Kind())
	}
	if cmd == nil {
		t.Fatal("Show should arm an auto-hide timer")
	}

	// The timer fires hideNotificationMsg with the arming generation.
	n.Update(hideNotificationMsg{Gen: 1})
	if n.Visible() {
		t.Error("expected banner hidden after its own timer fired")
	}
}

func TestNotification_StaleTimerIgnored(t *testing.T) {
	n := NewNotification(time.Second)
	n.Show(NoticeError, "first")
	n.Show(NoticeSuccess, "second")

	// The first Show's timer fires after the second Show replaced the
	// banner; it must not hide the newer message.
	n.Update(hideNotificationMsg{Gen: 1})
	if !n.Visible() {
		t.Fatal("stale timer must not hide a newer banner")
	}
	if n.Text() != "second" {
		t.Errorf("expected %q, got %q", "second", n.Text())
	}

	n.Update(hideNotificationMsg{Gen: 2})
	if n.Visible() {
		t.Error("current timer should hide the banner")
	}
}

func TestNotification_ViewByKind(t *testing.T) {
	n := NewNotification(time.Second)
	if n.View() != "" {
		t.Error("hidden banner should render empty")
	}
	n.Show(NoticeError, "locked")
	if v := n.View(); v == "" {
		t.Error("visible banner should render")
	}
}
