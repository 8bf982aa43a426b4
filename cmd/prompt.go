package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chimeapp/chime/pkg/chimelib"
)

// console owns stdin. A single pump goroutine reads lines and routes each
// one to either the menu or the ring prompt depending on the current mode,
// so the two prompts never compete for the same reader.
type console struct {
	sc  *bufio.Scanner
	out io.Writer

	menuCh   chan string
	ringCh   chan string
	ringMode atomic.Bool
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{
		sc:     bufio.NewScanner(in),
		out:    out,
		menuCh: make(chan string),
		ringCh: make(chan string),
	}
}

// start launches the pump. Both channels close when input ends.
func (c *console) start() {
	go func() {
		defer close(c.menuCh)
		defer close(c.ringCh)
		for c.sc.Scan() {
			c.deliver(strings.TrimSpace(c.sc.Text()))
		}
	}()
}

// deliver routes one line to the channel matching the current mode. The
// mode can flip while we are blocked on a send, so the send times out and
// re-checks instead of committing to one channel forever.
func (c *console) deliver(line string) {
	for {
		ch := c.menuCh
		if c.ringMode.Load() {
			ch = c.ringCh
		}
		select {
		case ch <- line:
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// SetRingMode routes subsequent input lines to the ring prompt instead of
// the menu.
func (c *console) SetRingMode(on bool) {
	c.ringMode.Store(on)
}

// MenuLine blocks for the next menu-mode input line. ok is false once
// input has ended.
func (c *console) MenuLine() (line string, ok bool) {
	line, ok = <-c.menuCh
	return
}

// MenuLineCtx is MenuLine bounded by ctx, for the top-level menu prompt
// so a shutdown signal ends the session without another keypress.
func (c *console) MenuLineCtx(ctx context.Context) (line string, ok bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok = <-c.menuCh:
		return
	}
}

// RingLine blocks for the next ring-mode input line, giving up when ctx
// expires.
func (c *console) RingLine(ctx context.Context) (line string, ok bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok = <-c.ringCh:
		return
	}
}

// prompt prints the message and waits for a menu-mode line.
func (c *console) prompt(msg string) (string, bool) {
	fmt.Fprint(c.out, msg)
	return c.MenuLine()
}

// promptTime asks for a strict 24-hour HH:MM time, re-prompting locally
// on invalid input.
func (c *console) promptTime() (chimelib.ClockTime, bool) {
	for {
		line, ok := c.prompt("Enter alarm time (HH:MM, 24-hour): ")
		if !ok {
			return chimelib.ClockTime{}, false
		}
		t, err := chimelib.ParseClockTime(line)
		if err != nil {
			fmt.Fprintln(c.out, "Invalid time format! Please use HH:MM (24-hour) format.")
			continue
		}
		return t, true
	}
}

// promptTone offers the preset tones plus a custom file.
func (c *console) promptTone() (string, bool) {
	fmt.Fprintln(c.out, "\nSelect alarm tone:")
	fmt.Fprintln(c.out, "  1. Beep")
	fmt.Fprintln(c.out, "  2. Bell")
	fmt.Fprintln(c.out, "  3. Chime")
	fmt.Fprintln(c.out, "  4. Buzzer")
	fmt.Fprintln(c.out, "  5. Custom file")
	for {
		line, ok := c.prompt("Choice [1]: ")
		if !ok {
			return "", false
		}
		switch line {
		case "":
			return chimelib.DefaultTone(), true
		case "1", "2", "3", "4":
			tone, err := chimelib.PresetTone(line)
			if err != nil {
				fmt.Fprintln(c.out, "Invalid choice! Please enter 1-5.")
				continue
			}
			return tone, true
		case "5":
			return c.promptCustomTone()
		default:
			fmt.Fprintln(c.out, "Invalid choice! Please enter 1-5.")
		}
	}
}

// promptCustomTone asks for a tone file path. A bad path offers to fall
// back to the default tone instead of looping forever.
func (c *console) promptCustomTone() (string, bool) {
	for {
		line, ok := c.prompt("Enter tone file path: ")
		if !ok {
			return "", false
		}
		if err := chimelib.ValidateToneFile(line); err != nil {
			fmt.Fprintf(c.out, "Cannot use that file: %s\n", err.Error())
			if c.confirm("Use the default tone instead? (yes/no): ") {
				return chimelib.DefaultTone(), true
			}
			continue
		}
		return line, true
	}
}

// promptSnooze asks for the snooze duration in minutes.
func (c *console) promptSnooze() (int, bool) {
	fmt.Fprintln(c.out, "\nSnooze duration:")
	fmt.Fprintln(c.out, "  1. 5 minutes")
	fmt.Fprintln(c.out, "  2. 10 minutes")
	fmt.Fprintln(c.out, "  3. 15 minutes")
	fmt.Fprintln(c.out, "  4. Custom")
	for {
		line, ok := c.prompt("Choice [1]: ")
		if !ok {
			return 0, false
		}
		switch line {
		case "", "1":
			return 5, true
		case "2":
			return 10, true
		case "3":
			return 15, true
		case "4":
			return c.promptCustomSnooze()
		default:
			fmt.Fprintln(c.out, "Invalid choice! Please enter 1-4.")
		}
	}
}

func (c *console) promptCustomSnooze() (int, bool) {
	for {
		line, ok := c.prompt(fmt.Sprintf("Enter minutes (%d-%d): ", MIN_SNOOZE_MINS, MAX_SNOOZE_MINS))
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil || chimelib.ValidateSnooze(n) != nil {
			fmt.Fprintf(c.out, "Invalid duration! Please enter a number between %d and %d.\n",
				MIN_SNOOZE_MINS, MAX_SNOOZE_MINS)
			continue
		}
		return n, true
	}
}

// promptRepeat optionally attaches a cron schedule. Empty input keeps the
// alarm ringing daily at its time.
func (c *console) promptRepeat() (string, bool) {
	for {
		line, ok := c.prompt("Repeat schedule (5-field cron, empty = every day): ")
		if !ok {
			return "", false
		}
		if line == "" {
			return "", true
		}
		if err := chimelib.ValidateCron(line); err != nil {
			fmt.Fprintln(c.out, "Invalid cron expression! Expected 5 fields, e.g. \"30 7 * * 1-5\".")
			continue
		}
		if next, err := chimelib.NextCronOccurrence(line, time.Now()); err == nil {
			fmt.Fprintf(c.out, "Next occurrence: %s\n", next.Format("Mon Jan 2 15:04"))
		}
		return line, true
	}
}

// confirm asks a yes/no question on the menu channel.
func (c *console) confirm(msg string) bool {
	line, ok := c.prompt(msg)
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}
