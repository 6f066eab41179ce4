package notify

import (
	"fmt"
	"testing"
	"time"
)

func TestDedupBumpsCount(t *testing.T) {
	c := New()
	c.Push(Warn, "disk full")
	c.Push(Warn, "disk full")
	c.Push(Warn, "disk full")

	active := c.Active()
	if len(active) != 1 {
		t.Fatalf("len = %d, want 1", len(active))
	}
	if active[0].Count != 3 {
		t.Errorf("count = %d, want 3", active[0].Count)
	}
}

func TestDifferentLevelNotDeduplicated(t *testing.T) {
	c := New()
	c.Push(Info, "saved")
	c.Push(Error, "saved")
	if got := c.Len(); got != 2 {
		t.Errorf("len = %d, want 2", got)
	}
}

func TestOverflowDiscardsOldest(t *testing.T) {
	c := New(WithCapacity(3))
	for i := 0; i < 5; i++ {
		c.Push(Info, fmt.Sprintf("msg-%d", i))
	}
	active := c.Active()
	if len(active) != 3 {
		t.Fatalf("len = %d, want 3", len(active))
	}
	if active[0].Message != "msg-2" || active[2].Message != "msg-4" {
		t.Errorf("kept %q..%q, want msg-2..msg-4", active[0].Message, active[2].Message)
	}
}

func TestAutoDismiss(t *testing.T) {
	clock := time.Unix(1000, 0)
	c := New(
		WithClock(func() time.Time { return clock }),
		WithDismissAfter(Info, 2*time.Second),
		WithDismissAfter(Error, 10*time.Second),
	)
	c.Push(Info, "short-lived")
	c.Push(Error, "long-lived")

	clock = clock.Add(5 * time.Second)
	active := c.Active()
	if len(active) != 1 || active[0].Message != "long-lived" {
		t.Errorf("active = %+v, want only long-lived", active)
	}
}

func TestDismissAll(t *testing.T) {
	c := New()
	c.Push(Info, "a")
	c.DismissAll()
	if c.Len() != 0 {
		t.Errorf("len = %d after dismiss", c.Len())
	}
}
