// Package ring owns the firing episode of an alarm: the single ring slot,
// tone playback, the dismiss-or-snooze decision and the auto-snooze
// deadline.
package ring

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/chimeapp/chime/pkg/chimelib"
	"github.com/chimeapp/chime/pkg/logger"
	"github.com/chimeapp/chime/pkg/sound"
)

// DefaultResponseWindow is how long a ringing alarm waits for a decision
// before auto-snoozing.
const DefaultResponseWindow = 30 * time.Second

// Coordinator serializes firing episodes. At most one alarm rings at a
// time; concurrent Fire calls for other alarms fail fast with
// ErrAlreadyRinging and the caller retries on a later scan.
type Coordinator struct {
	store   *chimelib.Store
	player  sound.Player
	decider Decider
	log     logger.Logger

	window   time.Duration
	now      func() time.Time
	fallback Decision
	onSnooze func(chimelib.Alarm)

	mu     sync.Mutex
	active string
	intr   chan struct{}
}

// Options tune a Coordinator. Zero values pick the defaults.
type Options struct {
	// Window is the response window before auto-snooze.
	Window time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
	// Fallback is the decision applied when the window expires.
	Fallback Decision
}

// New creates a Coordinator over the given store, player and decider.
func New(store *chimelib.Store, player sound.Player, decider Decider, l logger.Logger, opts *Options) *Coordinator {
	c := &Coordinator{
		store:    store,
		player:   player,
		decider:  decider,
		log:      l,
		window:   DefaultResponseWindow,
		now:      time.Now,
		fallback: DecisionSnooze,
	}
	if opts != nil {
		if opts.Window > 0 {
			c.window = opts.Window
		}
		if opts.Now != nil {
			c.now = opts.Now
		}
		if opts.Fallback != DecisionNone {
			c.fallback = opts.Fallback
		}
	}
	return c
}

// OnSnooze registers the callback invoked with the one-shot follow-up
// alarm produced by a snooze. Must be set before Fire is called.
func (c *Coordinator) OnSnooze(fn func(chimelib.Alarm)) {
	c.onSnooze = fn
}

// Ringing reports the ID of the alarm currently holding the ring slot,
// or "" when idle.
func (c *Coordinator) Ringing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Idle reports whether the ring slot is free.
func (c *Coordinator) Idle() bool {
	return c.Ringing() == ""
}

// Interrupt requests a dismissal of the currently ringing alarm, as a
// SIGINT handler does. It reports whether an episode was interrupted.
func (c *Coordinator) Interrupt() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == "" {
		return false
	}
	select {
	case c.intr <- struct{}{}:
	default:
	}
	return true
}

// Fire runs one full firing episode for the alarm: acquire the ring slot,
// sound the tone, await the decision, apply it, release the slot. It
// returns the decision applied, or ErrAlreadyRinging when the slot is
// held by another alarm.
func (c *Coordinator) Fire(ctx context.Context, a chimelib.Alarm) (Decision, error) {
	if err := c.begin(a.ID); err != nil {
		return DecisionNone, err
	}
	defer c.end()

	c.log.Info("alarm ringing: %s (%s)", a.Label, a.Time.String())
	c.sound(a)

	d := c.await(ctx, a)
	switch d {
	case DecisionDismiss:
		c.dismiss(a)
	case DecisionSnooze:
		c.snooze(a)
	}
	return d, nil
}

// begin claims the ring slot.
func (c *Coordinator) begin(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != "" {
		return ErrAlreadyRinging
	}
	c.active = id
	c.intr = make(chan struct{}, 1)
	return nil
}

// end releases the ring slot.
func (c *Coordinator) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = ""
	c.intr = nil
}

// sound plays the alarm tone in the background so the decision prompt is
// not blocked by playback. Playback failure degrades to the simulated cue.
func (c *Coordinator) sound(a chimelib.Alarm) {
	player := c.player
	tone := a.Tone
	chimelib.SafeGo(c.log, nil, "tone playback", nil, func() {
		if err := player.Play(tone); err != nil {
			c.log.Warning("tone playback failed, simulating: %v", err)
			_ = sound.NewSimulated(os.Stdout).Play(tone)
		}
	})
}

// await collects the decision, racing the decider against the interrupt
// channel, the response window and the parent context.
func (c *Coordinator) await(ctx context.Context, a chimelib.Alarm) Decision {
	dctx, cancel := context.WithTimeout(ctx, c.window)
	defer cancel()

	type result struct {
		d   Decision
		err error
	}
	resCh := make(chan result, 1)
	chimelib.SafeGo(c.log, nil, "ring decider", nil, func() {
		d, err := c.decider.Decide(dctx, a)
		resCh <- result{d, err}
	})

	c.mu.Lock()
	intr := c.intr
	c.mu.Unlock()

	select {
	case res := <-resCh:
		if res.err != nil || res.d == DecisionNone {
			return c.expired(ctx, a)
		}
		return res.d
	case <-intr:
		c.log.Info("alarm interrupted, dismissing: %s", a.Label)
		return DecisionDismiss
	case <-dctx.Done():
		return c.expired(ctx, a)
	}
}

// expired resolves an episode that ended without an explicit decision.
// A cancelled parent context means the app is shutting down and the alarm
// is dismissed; a lapsed response window applies the fallback.
func (c *Coordinator) expired(ctx context.Context, a chimelib.Alarm) Decision {
	if ctx.Err() != nil {
		c.log.Info("shutdown during ring, dismissing: %s", a.Label)
		return DecisionDismiss
	}
	c.log.Info("no response in %s, auto-%s: %s", c.window, c.fallback, a.Label)
	return c.fallback
}

// dismiss ends the episode and clears any snooze state so the alarm
// rejoins the main scan. One-shot snooze instances are not store members,
// so a not-found result is expected for them.
func (c *Coordinator) dismiss(a chimelib.Alarm) {
	if err := c.store.ResetSnooze(a.ID); err != nil && !errors.Is(err, chimelib.ErrAlarmNotFound) {
		c.log.Error("failed to reset snooze state for %s: %v", a.ID, err)
	}
	c.log.Info("alarm dismissed: %s", a.Label)
}

// snooze marks the original alarm snoozed, derives the one-shot follow-up
// and hands it to the snooze callback for watching.
func (c *Coordinator) snooze(a chimelib.Alarm) {
	if err := c.store.MarkSnoozed(a.ID); err != nil && !errors.Is(err, chimelib.ErrAlarmNotFound) {
		c.log.Error("failed to mark %s snoozed: %v", a.ID, err)
	}
	next := chimelib.ComputeSnooze(a, c.now())
	c.log.Info("alarm snoozed until %s: %s", next.Time.String(), next.Label)
	if c.onSnooze != nil {
		c.onSnooze(next)
	}
}
