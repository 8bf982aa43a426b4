package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chimeapp/chime/pkg/chimelib"
	"github.com/chimeapp/chime/pkg/logger"
)

// menu is the interactive foreground loop. It owns no alarm state; every
// mutation goes through the store so the background monitor sees it on
// its next scan.
type menu struct {
	con   *console
	store *chimelib.Store
	log   logger.Logger
}

// run iterates the main menu until the user exits or input ends.
func (m *menu) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !m.iterate(ctx) {
			return
		}
	}
}

// iterate shows the menu once and handles the choice. A panic in a
// handler is contained to the iteration so one bad interaction cannot
// take the whole session down.
func (m *menu) iterate(ctx context.Context) (cont bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("menu handler panicked: %v", r)
			cont = true
		}
	}()

	fmt.Fprintln(m.con.out)
	fmt.Fprintln(m.con.out, "=== CHIME ALARM CLOCK ===")
	fmt.Fprintf(m.con.out, "Current time: %s\n", time.Now().Format("15:04:05"))
	fmt.Fprintf(m.con.out, "Alarms: %d registered, %d enabled\n", m.store.Count(), m.store.EnabledCount())
	fmt.Fprintln(m.con.out, "  1. Set new alarm")
	fmt.Fprintln(m.con.out, "  2. View alarms")
	fmt.Fprintln(m.con.out, "  3. Manage alarms")
	fmt.Fprintln(m.con.out, "  4. Help")
	fmt.Fprintln(m.con.out, "  5. Exit")

	fmt.Fprint(m.con.out, "Choice: ")
	line, ok := m.con.MenuLineCtx(ctx)
	if !ok {
		return false
	}
	switch line {
	case "1":
		return m.setAlarm()
	case "2":
		m.viewAlarms()
	case "3":
		return m.manageAlarms()
	case "4":
		m.showHelp()
	case "5", "q", "quit", "exit":
		return false
	default:
		fmt.Fprintln(m.con.out, "Invalid choice! Please enter 1-5.")
	}
	return true
}

// setAlarm walks the prompts and registers the alarm. Any prompt reports
// ok=false only when input has ended, which ends the session.
func (m *menu) setAlarm() bool {
	t, ok := m.con.promptTime()
	if !ok {
		return false
	}
	label, ok := m.con.prompt("Label (empty for default): ")
	if !ok {
		return false
	}
	tone, ok := m.con.promptTone()
	if !ok {
		return false
	}
	snooze, ok := m.con.promptSnooze()
	if !ok {
		return false
	}
	cron, ok := m.con.promptRepeat()
	if !ok {
		return false
	}

	a := chimelib.NewAlarm(t, tone, snooze, label)
	a.Cron = cron
	m.store.Add(a)
	fmt.Fprintf(m.con.out, "Alarm set for %s: %s\n", a.Time.String(), a.Label)
	return true
}

func (m *menu) viewAlarms() {
	alarms := m.store.Alarms()
	if len(alarms) == 0 {
		fmt.Fprintln(m.con.out, "chime: no alarms set")
		return
	}
	fmt.Fprintln(m.con.out, renderAlarmTable(alarms))
}

// manageAlarms resolves a display ordinal to an alarm and toggles or
// deletes it. Ordinals are only valid within this one listing.
func (m *menu) manageAlarms() bool {
	alarms := m.store.Alarms()
	if len(alarms) == 0 {
		fmt.Fprintln(m.con.out, "chime: no alarms set")
		return true
	}
	fmt.Fprintln(m.con.out, renderAlarmTable(alarms))

	line, ok := m.con.prompt("Alarm number (empty to go back): ")
	if !ok {
		return false
	}
	if line == "" {
		return true
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(m.con.out, "Invalid number!")
		return true
	}
	id, err := m.store.Ordinal(n)
	if err != nil {
		fmt.Fprintln(m.con.out, "No alarm with that number!")
		return true
	}

	action, ok := m.con.prompt("Action - 1. Toggle on/off  2. Delete  (empty to go back): ")
	if !ok {
		return false
	}
	switch action {
	case "":
	case "1":
		on, err := m.store.ToggleEnabled(id)
		if err != nil {
			fmt.Fprintf(m.con.out, "chime: %s\n", err.Error())
			break
		}
		if on {
			fmt.Fprintln(m.con.out, "Alarm enabled.")
		} else {
			fmt.Fprintln(m.con.out, "Alarm disabled.")
		}
	case "2":
		removed, err := m.store.Remove(id)
		if err != nil {
			fmt.Fprintf(m.con.out, "chime: %s\n", err.Error())
			break
		}
		fmt.Fprintf(m.con.out, "Deleted alarm: %s\n", removed.Label)
	default:
		fmt.Fprintln(m.con.out, "Invalid choice!")
	}
	return true
}

func (m *menu) showHelp() {
	fmt.Fprint(m.con.out, `
How it works:
  Alarms are checked in the background every scan interval.
  When an alarm rings, type 1 to dismiss it or 2 (or just
  Enter) to snooze it. An unanswered alarm snoozes itself
  after the response window. Press Ctrl+C while an alarm is
  ringing to dismiss it; at the menu, Ctrl+C exits.
`)
}
