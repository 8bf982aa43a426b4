package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chimeapp/chime/internal/ring"
	"github.com/chimeapp/chime/pkg/chimelib"
)

func testAlarm() chimelib.Alarm {
	return chimelib.Alarm{
		ID:         "abc",
		Label:      "wake up",
		Time:       chimelib.ClockTime{Hour: 7, Minute: 30},
		SnoozeMins: 5,
	}
}

func TestRingUIDismiss(t *testing.T) {
	c, out := newTestConsole("1\n")
	u := &ringUI{con: c, out: out}

	d, err := u.Decide(context.Background(), testAlarm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != ring.DecisionDismiss {
		t.Errorf("expected dismiss, got %s", d)
	}
	if !strings.Contains(out.String(), "ALARM RINGING: wake up") {
		t.Error("expected the ring banner")
	}
	if c.ringMode.Load() {
		t.Error("ring mode should be cleared after the decision")
	}
}

func TestRingUISnoozeOnEnter(t *testing.T) {
	c, out := newTestConsole("\n")
	u := &ringUI{con: c, out: out}

	d, err := u.Decide(context.Background(), testAlarm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != ring.DecisionSnooze {
		t.Errorf("expected snooze on bare Enter, got %s", d)
	}
}

func TestRingUIRepromptsOnInvalid(t *testing.T) {
	c, out := newTestConsole("x\n7\n2\n")
	u := &ringUI{con: c, out: out}

	d, err := u.Decide(context.Background(), testAlarm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != ring.DecisionSnooze {
		t.Errorf("expected snooze, got %s", d)
	}
	if got := strings.Count(out.String(), "Invalid choice"); got != 2 {
		t.Errorf("expected 2 re-prompts, got %d", got)
	}
}

func TestRingUINoDecisionOnExpiry(t *testing.T) {
	c, out := newTestConsole("")
	u := &ringUI{con: c, out: out}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	d, err := u.Decide(ctx, testAlarm())
	if d != ring.DecisionNone {
		t.Errorf("expected no decision, got %s", d)
	}
	if err == nil {
		t.Error("expected the context error")
	}
}
