package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"

	"github.com/chimeapp/chime/cmd/common"
	"github.com/chimeapp/chime/internal/ring"
	"github.com/chimeapp/chime/pkg/chimelib"
)

// ringUI collects the dismiss-or-snooze decision on the console. While it
// runs, the console routes input lines here instead of the menu.
type ringUI struct {
	con    *console
	out    io.Writer
	window time.Duration
}

func (u *ringUI) Decide(ctx context.Context, a chimelib.Alarm) (ring.Decision, error) {
	u.con.SetRingMode(true)
	defer u.con.SetRingMode(false)

	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "🚨 ALARM RINGING: %s (%s)\n", a.Label, a.Time.String())
	fmt.Fprintf(u.out, "  1. Dismiss   2. Snooze %d min (Enter = snooze)\n", a.SnoozeMins)

	stop := u.startCountdown(ctx)
	defer stop()

	for {
		line, ok := u.con.RingLine(ctx)
		if !ok {
			return ring.DecisionNone, ctx.Err()
		}
		switch line {
		case "1", "d", "dismiss":
			return ring.DecisionDismiss, nil
		case "", "2", "s", "snooze":
			return ring.DecisionSnooze, nil
		default:
			fmt.Fprintln(u.out, "Invalid choice! 1 = dismiss, 2 = snooze.")
		}
	}
}

// startCountdown renders the auto-snooze countdown bar, advancing one
// step per second until ctx expires or the returned stop func runs.
func (u *ringUI) startCountdown(ctx context.Context) (stop func()) {
	seconds := int64(u.window / time.Second)
	if seconds <= 0 {
		return func() {}
	}
	cctx, cancel := context.WithCancel(ctx)
	p := mpb.NewWithContext(cctx, mpb.WithOutput(u.out), mpb.WithWidth(40))
	bar := common.CountdownBar(p, "Auto-snooze in", seconds)

	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-cctx.Done():
				bar.Abort(true)
				return
			case <-t.C:
				bar.Increment()
			}
		}
	}()
	return func() {
		cancel()
		p.Wait()
	}
}
