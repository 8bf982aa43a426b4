// Package scheduler drives alarm firing: a main loop scans the store once
// per interval and fires the first due alarm, and per-snooze watch tasks
// follow detached one-shot instances until they ring.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adhocore/gronx"

	"github.com/chimeapp/chime/internal/ring"
	"github.com/chimeapp/chime/pkg/chimelib"
	"github.com/chimeapp/chime/pkg/logger"
)

// Loop is the background alarm monitor. Start launches the main scan and
// Watch launches one supervised task per pending snooze instance; Wait
// blocks until all of them have exited after the context is cancelled.
type Loop struct {
	store  *chimelib.Store
	ringer Ringer
	log    logger.Logger

	interval time.Duration
	now      func() time.Time

	ctx context.Context
	wg  sync.WaitGroup

	mu        sync.Mutex
	lastFired map[string]string
}

// New creates a Loop over the given store and ringer.
func New(store *chimelib.Store, ringer Ringer, l logger.Logger, opts *Options) *Loop {
	lp := &Loop{
		store:     store,
		ringer:    ringer,
		log:       l,
		interval:  DefaultInterval,
		now:       time.Now,
		lastFired: make(map[string]string),
	}
	if opts != nil {
		if opts.Interval > 0 {
			lp.interval = opts.Interval
		}
		if opts.Now != nil {
			lp.now = opts.Now
		}
	}
	return lp
}

// Start launches the main scan loop. It runs until ctx is cancelled.
// The same ctx bounds every watch task started afterwards.
func (l *Loop) Start(ctx context.Context) {
	l.ctx = ctx
	l.wg.Add(1)
	chimelib.SafeGo(l.log, &l.wg, "alarm scan loop", nil, func() {
		l.log.Info("alarm monitoring started, scanning every %s", l.interval)
		t := time.NewTicker(l.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				l.log.Info("alarm monitoring stopped")
				return
			case <-t.C:
				l.scanOnce()
			}
		}
	})
}

// Wait blocks until the main loop and every watch task have exited.
func (l *Loop) Wait() {
	l.wg.Wait()
}

// scanOnce fires the first due alarm, if any. At most one episode starts
// per pass; remaining due alarms fire on later ticks once the ring slot
// frees up.
func (l *Loop) scanOnce() {
	now := l.now()
	for _, a := range l.store.Alarms() {
		if !l.due(a, now) {
			continue
		}
		if l.fire(a, now) {
			return
		}
	}
}

// due reports whether the alarm should ring at now. Disabled and snoozed
// alarms never ring from the main scan, and an alarm fires at most once
// per wall-clock minute.
func (l *Loop) due(a chimelib.Alarm, now time.Time) bool {
	if !a.Enabled || a.Snoozed {
		return false
	}
	if l.firedAt(a.ID, now) {
		return false
	}
	if a.Cron != "" {
		return l.cronDue(a, now)
	}
	return a.Time.Matches(now)
}

// cronDue reports whether the cron schedule covers now's minute: the
// first tick strictly after the previous minute must be the current one.
func (l *Loop) cronDue(a chimelib.Alarm, now time.Time) bool {
	minute := now.Truncate(time.Minute)
	next, err := gronx.NextTickAfter(a.Cron, minute.Add(-time.Second), false)
	if err != nil {
		l.log.Error("bad cron expression on alarm %s: %v", a.ID, err)
		return false
	}
	return next.Equal(minute)
}

// fire runs the episode and records the fired minute on success. A busy
// ring slot is not an error; the alarm stays due for the next tick.
func (l *Loop) fire(a chimelib.Alarm, now time.Time) bool {
	_, err := l.ringer.Fire(l.context(), a)
	if err != nil {
		if !errors.Is(err, ring.ErrAlreadyRinging) {
			l.log.Error("firing episode failed for %s: %v", a.ID, err)
		}
		return false
	}
	l.markFired(a.ID, now)
	return true
}

// Watch launches a supervised task that follows a detached one-shot
// instance (a pending snooze) until it rings. The task retries while the
// ring slot is busy and exits once the episode resolves or the loop
// shuts down.
func (l *Loop) Watch(a chimelib.Alarm) {
	l.wg.Add(1)
	ctx := l.context()
	deadline := a.Time.NextAfter(l.now())
	chimelib.SafeGo(l.log, &l.wg, fmt.Sprintf("watch %s", a.Label), nil, func() {
		l.log.Info("watching snoozed alarm until %s: %s", a.Time.String(), a.Label)
		t := time.NewTicker(l.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			if l.now().Before(deadline) {
				continue
			}
			_, err := l.ringer.Fire(ctx, a)
			if errors.Is(err, ring.ErrAlreadyRinging) {
				continue
			}
			if err != nil {
				l.log.Error("firing episode failed for %s: %v", a.ID, err)
			}
			return
		}
	})
}

// context returns the lifecycle context, Background before Start.
func (l *Loop) context() context.Context {
	if l.ctx != nil {
		return l.ctx
	}
	return context.Background()
}

// firedAt reports whether the alarm already fired during now's minute.
func (l *Loop) firedAt(id string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastFired[id] == minuteKey(now)
}

// markFired records the minute the alarm fired in.
func (l *Loop) markFired(id string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastFired[id] = minuteKey(now)
}

func minuteKey(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
