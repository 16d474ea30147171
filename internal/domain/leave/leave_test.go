package leave

import (
	"errors"
	"testing"
	"time"
)

func TestPendingCanBeDecided(t *testing.T) {
	if !CanTransition(StatusPending, StatusApproved) {
		t.Fatal("pending -> approved should be allowed")
	}
	if !CanTransition(StatusPending, StatusRejected) {
		t.Fatal("pending -> rejected should be allowed")
	}
}

func TestDecidedStatesAreTerminal(t *testing.T) {
	for _, from := range []string{StatusApproved, StatusRejected} {
		for _, to := range []string{StatusPending, StatusApproved, StatusRejected} {
			if CanTransition(from, to) {
				t.Fatalf("%s -> %s should be refused", from, to)
			}
		}
	}
}

func TestUnknownStatusHasNoTransitions(t *testing.T) {
	if CanTransition("cancelled", StatusApproved) {
		t.Fatal("unknown status should have no transitions")
	}
}

func TestDayCount(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}
	n, err := DayCount(day(2), day(6))
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("five day span = %d", n)
	}
	n, err = DayCount(day(2), day(2))
	if err != nil || n != 1 {
		t.Fatalf("single day = %d, %v", n, err)
	}
	if _, err := DayCount(day(6), day(2)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted range should fail, got %v", err)
	}
}
