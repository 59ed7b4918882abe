package core

import (
	"testing"
	"time"
)

func TestThrottleFiresOncePerInterval(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	th := NewThrottle(time.Second)
	th.SetClock(func() time.Time { return now })

	if !th.Ready() {
		t.Fatal("first call should fire")
	}
	now = now.Add(400 * time.Millisecond)
	if th.Ready() {
		t.Fatal("should not fire before the interval elapsed")
	}
	now = now.Add(700 * time.Millisecond)
	if !th.Ready() {
		t.Fatal("should fire once the interval elapsed")
	}
	if th.Ready() {
		t.Fatal("should not fire twice without time passing")
	}
}

func TestThrottleDefaultsInterval(t *testing.T) {
	th := NewThrottle(0)
	if th.interval != time.Second {
		t.Fatalf("expected default interval of 1s, got %s", th.interval)
	}
}
