package cmd

import "time"

const (
	DEF_SCAN_INTERVAL   = time.Second * 30
	DEF_RESPONSE_WINDOW = time.Second * 30
	DEF_SNOOZE_MINS     = 5

	MIN_SNOOZE_MINS = 1
	MAX_SNOOZE_MINS = 60
)

const DESCRIPTION = `
Chime is a friendly terminal alarm clock. It keeps your
alarms in the background while you use the interactive
menu, rings them on time with your chosen tone, and lets
you snooze or dismiss each alarm as it fires.
`

const (
	RunDescription = `The run command starts the interactive alarm clock: a
background monitor scans your alarms twice a minute while
the menu lets you add, view, toggle and delete them.

Example:
        chime
                    OR
        chime run

`
	ListDescription = `The list command displays your registered alarms along
with their schedule, tone and current state without
starting the interactive menu.

Example:
        chime list

`
	FlushDescription = `The flush command deletes every registered alarm for the
current user, including pending snoozes and their state.

Example:
        chime flush

`
)
