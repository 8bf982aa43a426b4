package scheduler

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chimeapp/chime/internal/ring"
	"github.com/chimeapp/chime/pkg/chimelib"
	"github.com/chimeapp/chime/pkg/logger"
	"github.com/chimeapp/chime/pkg/sound"
)

type fakeRinger struct {
	mu    sync.Mutex
	fired []string
	busy  bool
}

func (f *fakeRinger) Fire(_ context.Context, a chimelib.Alarm) (ring.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ring.DecisionNone, ring.ErrAlreadyRinging
	}
	f.fired = append(f.fired, a.ID)
	return ring.DecisionDismiss, nil
}

func (f *fakeRinger) firedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.fired...)
}

func newTestStore(t *testing.T) *chimelib.Store {
	t.Helper()
	if err := chimelib.SetConfigDir(t.TempDir()); err != nil {
		t.Fatalf("failed to set config dir: %v", err)
	}
	s, err := chimelib.InitStore()
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testLoop(store *chimelib.Store, r Ringer, now time.Time) *Loop {
	l := New(store, r, logger.NewMockLogger(), &Options{
		Interval: 5 * time.Millisecond,
		Now:      func() time.Time { return now },
	})
	l.ctx = context.Background()
	return l
}

func TestScanFiresDueAlarmOncePerMinute(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	a := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "morning")
	store.Add(a)

	r := &fakeRinger{}
	l := testLoop(store, r, now)

	l.scanOnce()
	l.scanOnce()
	if got := r.firedIDs(); len(got) != 1 {
		t.Fatalf("expected exactly one fire in the same minute, got %d", len(got))
	}
}

func TestScanSkipsDisabledAndSnoozed(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)

	disabled := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "off")
	disabled.Enabled = false
	store.Add(disabled)

	snoozed := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "deferred")
	store.Add(snoozed)
	if err := store.MarkSnoozed(snoozed.ID); err != nil {
		t.Fatalf("failed to mark snoozed: %v", err)
	}

	notDue := chimelib.NewAlarm(chimelib.ClockTime{Hour: 8, Minute: 0}, "tone.wav", 5, "later")
	store.Add(notDue)

	r := &fakeRinger{}
	l := testLoop(store, r, now)
	l.scanOnce()
	if got := r.firedIDs(); len(got) != 0 {
		t.Errorf("expected no fires, got %v", got)
	}
}

func TestScanFiresFirstDueOnly(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	a := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "first")
	b := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "second")
	store.Add(a)
	store.Add(b)

	r := &fakeRinger{}
	l := testLoop(store, r, now)

	l.scanOnce()
	got := r.firedIDs()
	if len(got) != 1 || got[0] != a.ID {
		t.Fatalf("expected a single fire of the first due alarm, got %v", got)
	}

	// The second alarm is still due on the next pass.
	l.scanOnce()
	got = r.firedIDs()
	if len(got) != 2 || got[1] != b.ID {
		t.Fatalf("expected the second alarm to fire on the next pass, got %v", got)
	}
}

func TestScanCronSchedule(t *testing.T) {
	store := newTestStore(t)
	// Monday 2026-08-24 07:30 UTC.
	monday := time.Date(2026, 8, 24, 7, 30, 0, 0, time.UTC)

	a := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "weekdays")
	a.Cron = "30 7 * * 1-5"
	store.Add(a)

	r := &fakeRinger{}
	l := testLoop(store, r, monday)
	l.scanOnce()
	if got := r.firedIDs(); len(got) != 1 {
		t.Fatalf("expected the cron alarm to fire on Monday, got %d fires", len(got))
	}

	// Saturday 2026-08-29 07:30 UTC is outside the schedule.
	saturday := time.Date(2026, 8, 29, 7, 30, 0, 0, time.UTC)
	l2 := testLoop(store, &fakeRinger{}, saturday)
	l2.scanOnce()
	if got := l2.ringer.(*fakeRinger).firedIDs(); len(got) != 0 {
		t.Errorf("expected no fire on Saturday, got %v", got)
	}
}

func TestScanRetriesWhileRingSlotBusy(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	a := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "queued")
	store.Add(a)

	r := &fakeRinger{busy: true}
	l := testLoop(store, r, now)

	l.scanOnce()
	if got := r.firedIDs(); len(got) != 0 {
		t.Fatalf("expected no fire while busy, got %v", got)
	}

	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()

	l.scanOnce()
	if got := r.firedIDs(); len(got) != 1 {
		t.Fatalf("expected the alarm to fire once the slot freed, got %d fires", len(got))
	}
}

func TestStartAndShutdown(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	a := chimelib.NewAlarm(chimelib.ClockTime{Hour: 7, Minute: 30}, "tone.wav", 5, "live")
	store.Add(a)

	r := &fakeRinger{}
	l := New(store, r, logger.NewMockLogger(), &Options{
		Interval: 5 * time.Millisecond,
		Now:      func() time.Time { return now },
	})

	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		l.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not shut down after cancel")
	}
	if got := r.firedIDs(); len(got) != 1 {
		t.Errorf("expected exactly one fire while running, got %d", len(got))
	}
}

type alwaysSnooze struct{}

func (alwaysSnooze) Decide(context.Context, chimelib.Alarm) (ring.Decision, error) {
	return ring.DecisionSnooze, nil
}

// A snoozed 09:00 alarm leaves the main scan and comes back as a 09:05
// watch instance that rings on its own.
func TestSnoozeEndToEnd(t *testing.T) {
	store := newTestStore(t)

	var mu sync.Mutex
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	a := chimelib.NewAlarm(chimelib.ClockTime{Hour: 9, Minute: 0}, "tone.wav", 5, "meeting")
	store.Add(a)

	player := &sound.Simulated{Out: &bytes.Buffer{}, Beeps: 1}
	coord := ring.New(store, player, alwaysSnooze{}, logger.NewMockLogger(), &ring.Options{
		Now: clock,
	})
	l := New(store, coord, logger.NewMockLogger(), &Options{
		Interval: 5 * time.Millisecond,
		Now:      clock,
	})
	ctx, cancel := context.WithCancel(context.Background())
	l.ctx = ctx
	coord.OnSnooze(l.Watch)

	l.scanOnce()
	got, err := store.Get(a.ID)
	if err != nil {
		t.Fatalf("failed to get alarm: %v", err)
	}
	if !got.Snoozed || got.SnoozeCount != 1 {
		t.Fatalf("expected snoozed original with count 1, got snoozed=%v count=%d", got.Snoozed, got.SnoozeCount)
	}

	// Still 09:00: the snoozed member is excluded from the scan.
	l.scanOnce()
	got, _ = store.Get(a.ID)
	if got.SnoozeCount != 1 {
		t.Fatalf("snoozed alarm fired again from the main scan, count=%d", got.SnoozeCount)
	}

	// 09:05: the watch instance rings and is snoozed once more.
	mu.Lock()
	now = now.Add(5 * time.Minute)
	mu.Unlock()

	deadline := time.After(2 * time.Second)
	for {
		got, _ = store.Get(a.ID)
		if got.SnoozeCount == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("watch instance never rang, count=%d", got.SnoozeCount)
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	done := make(chan struct{})
	go func() {
		l.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch tasks did not exit on shutdown")
	}
}

func TestWatchFiresAtDeadlineAndExits(t *testing.T) {
	store := newTestStore(t)

	var mu sync.Mutex
	now := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	r := &fakeRinger{}
	l := New(store, r, logger.NewMockLogger(), &Options{
		Interval: 5 * time.Millisecond,
		Now:      clock,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.ctx = ctx

	one := chimelib.ComputeSnooze(chimelib.Alarm{
		ID:         "orig",
		Label:      "nap",
		Time:       chimelib.ClockTime{Hour: 7, Minute: 30},
		SnoozeMins: 5,
	}, now)
	l.Watch(one)

	time.Sleep(30 * time.Millisecond)
	if got := r.firedIDs(); len(got) != 0 {
		t.Fatalf("watch fired before its deadline: %v", got)
	}

	mu.Lock()
	now = now.Add(5 * time.Minute)
	mu.Unlock()

	deadline := time.After(2 * time.Second)
	for len(r.firedIDs()) == 0 {
		select {
		case <-deadline:
			t.Fatal("watch never fired after its deadline")
		case <-time.After(time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		l.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch task did not exit after firing")
	}
}
