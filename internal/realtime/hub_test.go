package realtime

import (
	"context"
	"testing"
)

// stubConn records messages delivered to it.
type stubConn struct {
	received []ChatMessage
}

func (s *stubConn) Send(_ context.Context, msg ChatMessage) error {
	s.received = append(s.received, msg)
	return nil
}

func TestRegisterOverwrites(t *testing.T) {
	hub := NewHub()
	first := &stubConn{}
	second := &stubConn{}

	hub.Register("jane", first)
	hub.Register("jane", second)

	if hub.Get("jane") != second {
		t.Error("second connection did not replace the first")
	}
	if hub.Count() != 1 {
		t.Errorf("expected 1 entry, got %d", hub.Count())
	}
}

func TestStaleUnregisterKeepsNewerConnection(t *testing.T) {
	hub := NewHub()
	old := &stubConn{}
	current := &stubConn{}

	hub.Register("jane", old)
	hub.Register("jane", current)

	// The old connection's deferred cleanup fires after the reconnect.
	hub.Unregister("jane", old)

	if hub.Get("jane") != current {
		t.Error("stale unregister evicted the newer connection")
	}
}

func TestUnregisterCurrentConnection(t *testing.T) {
	hub := NewHub()
	conn := &stubConn{}

	hub.Register("jane", conn)
	hub.Unregister("jane", conn)

	if hub.Online("jane") {
		t.Error("jane still online after unregister")
	}
}

func TestDeliverRoutesToTarget(t *testing.T) {
	hub := NewHub()
	jane := &stubConn{}
	bob := &stubConn{}
	hub.Register("jane", jane)
	hub.Register("bob", bob)

	err := hub.Deliver(context.Background(), "jane", ChatMessage{Handle: "bob", Content: "hi"})
	if err != nil {
		t.Fatalf("deliver error: %v", err)
	}

	if len(bob.received) != 1 {
		t.Fatalf("bob received %d messages", len(bob.received))
	}
	got := bob.received[0]
	if got.From != "jane" || got.Content != "hi" || got.Error != "" {
		t.Errorf("unexpected message: %+v", got)
	}
	if len(jane.received) != 0 {
		t.Errorf("sender received echo: %+v", jane.received)
	}
}

func TestDeliverToOfflineTargetBouncesError(t *testing.T) {
	hub := NewHub()
	jane := &stubConn{}
	hub.Register("jane", jane)

	err := hub.Deliver(context.Background(), "jane", ChatMessage{Handle: "ghost", Content: "hi"})
	if err != nil {
		t.Fatalf("deliver error: %v", err)
	}

	if len(jane.received) != 1 || jane.received[0].Error != "User is offline" {
		t.Errorf("expected offline notice, got %+v", jane.received)
	}
}
