package notify

import (
	"testing"
	"time"
)

func newTestChannel() (*Channel, *time.Time) {
	now := time.Date(2025, 3, 27, 12, 0, 0, 0, time.UTC)
	c := New(nil)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestNotifyAppendsAndSchedules(t *testing.T) {
	c, _ := newTestChannel()

	cmd := c.Notify("Error: backend down")
	if cmd == nil {
		t.Fatal("Notify should return the auto-dismiss command")
	}
	live := c.Live()
	if len(live) != 1 {
		t.Fatalf("expected 1 live notification, got %d", len(live))
	}
	if live[0].Message != "Error: backend down" {
		t.Errorf("unexpected message %q", live[0].Message)
	}
	if live[0].ID == "" || live[0].Hiding {
		t.Errorf("unexpected notification state %+v", live[0])
	}
}

func TestAutoDismissThenRemove(t *testing.T) {
	c, _ := newTestChannel()
	c.Notify("one")
	id := c.Live()[0].ID

	handled, cmd := c.Update(autoDismissMsg{id: id})
	if !handled || cmd == nil {
		t.Fatalf("auto-dismiss should be handled and schedule removal, got handled=%v cmd=%v", handled, cmd)
	}
	if !c.Live()[0].Hiding {
		t.Error("notification should be hiding after auto-dismiss")
	}
	if c.Len() != 1 {
		t.Error("hiding notification should stay live until the grace period ends")
	}

	c.Update(removeMsg{id: id})
	if c.Len() != 0 {
		t.Errorf("expected 0 live notifications, got %d", c.Len())
	}
}

// Manual dismissal at 1s must win, and the later auto tick must not run
// the removal logic a second time.
func TestManualDismissBeatsAutoDismiss(t *testing.T) {
	c, now := newTestChannel()
	c.Notify("Error: backend down")
	id := c.Live()[0].ID

	*now = now.Add(1000 * time.Millisecond)
	if cmd := c.Dismiss(id); cmd == nil {
		t.Fatal("manual dismiss should schedule removal")
	}
	if cmd := c.Dismiss(id); cmd != nil {
		t.Error("second manual dismiss should be a no-op")
	}

	c.Update(removeMsg{id: id})
	if c.Len() != 0 {
		t.Fatalf("expected notification removed, %d left", c.Len())
	}

	handled, cmd := c.Update(autoDismissMsg{id: id})
	if !handled {
		t.Error("auto-dismiss message should still be recognized")
	}
	if cmd != nil {
		t.Error("auto-dismiss after manual removal should be a no-op")
	}
	if c.Removed() != 1 {
		t.Errorf("removal logic ran %d times, want 1", c.Removed())
	}
}

func TestAutoDismissWhileHidingIsNoop(t *testing.T) {
	c, _ := newTestChannel()
	c.Notify("one")
	id := c.Live()[0].ID

	c.Dismiss(id)
	if _, cmd := c.Update(autoDismissMsg{id: id}); cmd != nil {
		t.Error("auto-dismiss during hiding should not schedule a second removal")
	}
}

func TestDismissScheduleWaitsGracePeriod(t *testing.T) {
	c, _ := newTestChannel()
	c.Notify("one")
	id := c.Live()[0].ID

	cmd := c.Dismiss(id)
	start := time.Now()
	msg := cmd()
	if elapsed := time.Since(start); elapsed < HideGrace {
		t.Errorf("removal fired after %v, want >= %v", elapsed, HideGrace)
	}
	rm, ok := msg.(removeMsg)
	if !ok || rm.id != id {
		t.Fatalf("expected removeMsg for %s, got %#v", id, msg)
	}
	c.Update(rm)
	if c.Len() != 0 {
		t.Error("notification should be gone after the removal message")
	}
}

func TestConcurrentNotificationsAreIndependent(t *testing.T) {
	c, _ := newTestChannel()
	c.Notify("first")
	c.Notify("second")
	c.Notify("first")

	if c.Len() != 3 {
		t.Fatalf("channel must not coalesce, got %d", c.Len())
	}
	live := c.Live()
	c.Dismiss(live[1].ID)
	c.Update(removeMsg{id: live[1].ID})

	live = c.Live()
	if len(live) != 2 || live[0].Message != "first" || live[1].Message != "first" {
		t.Errorf("unexpected survivors %+v", live)
	}
}

func TestDismissNewest(t *testing.T) {
	c, _ := newTestChannel()
	c.Notify("old")
	c.Notify("new")

	if cmd := c.DismissNewest(); cmd == nil {
		t.Fatal("expected a dismissal")
	}
	live := c.Live()
	if live[0].Hiding || !live[1].Hiding {
		t.Errorf("newest should be hiding, got %+v", live)
	}

	c.DismissNewest()
	if !c.Live()[0].Hiding {
		t.Error("second call should dismiss the next visible notification")
	}
	if cmd := c.DismissNewest(); cmd != nil {
		t.Error("nothing left to dismiss")
	}
}

func TestUnknownMessageNotHandled(t *testing.T) {
	c, _ := newTestChannel()
	if handled, _ := c.Update("tick"); handled {
		t.Error("foreign messages must not be handled")
	}
	if cmd := c.Dismiss("missing"); cmd != nil {
		t.Error("unknown id should be a no-op")
	}
}
