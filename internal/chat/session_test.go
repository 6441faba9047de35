package chat

import (
	"testing"
	"time"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	s, err := NewSessionStore(4, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess := s.Create()
	if sess.ID == "" {
		t.Fatal("expected session id")
	}
	if got := s.Get(sess.ID); got != sess {
		t.Error("expected to get the created session")
	}
	if s.Get("nope") != nil {
		t.Error("expected nil for unknown id")
	}
	if len(sess.Exchange()) != 0 {
		t.Error("new session should have an empty exchange")
	}
}

func TestSessionStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s, _ := NewSessionStore(2, time.Hour)
	a := s.Create()
	b := s.Create()
	s.Get(a.ID)
	s.Create()

	if s.Get(b.ID) != nil {
		t.Error("expected least recently used session to be evicted")
	}
	if s.Get(a.ID) == nil {
		t.Error("expected recently used session to survive")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", s.Len())
	}
}

func TestSessionStore_Cleanup(t *testing.T) {
	s, _ := NewSessionStore(8, time.Minute)
	old := s.Create()
	fresh := s.Create()
	old.touched.Store(time.Now().Add(-2 * time.Minute).UnixNano())

	if n := s.Cleanup(); n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}
	if s.Get(old.ID) != nil {
		t.Error("expected expired session to be removed")
	}
	if s.Get(fresh.ID) == nil {
		t.Error("expected fresh session to remain")
	}
}

func TestSessionStore_GetDropsExpired(t *testing.T) {
	s, _ := NewSessionStore(8, time.Minute)
	sess := s.Create()
	sess.touched.Store(time.Now().Add(-time.Hour).UnixNano())

	if s.Get(sess.ID) != nil {
		t.Error("expected expired session to be hidden")
	}
	if s.Len() != 0 {
		t.Errorf("expected expired session to be removed, got %d", s.Len())
	}
}

func TestNewSessionStore_InvalidCapacity(t *testing.T) {
	if _, err := NewSessionStore(0, time.Hour); err == nil {
		t.Error("expected error for zero capacity")
	}
}
