package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/chimeapp/chime/cmd/common"
	"github.com/chimeapp/chime/pkg/chimelib"
)

var (
	showEnabledOnly bool

	lsFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "enabled-only, e",
			Usage:       "use this flag to list enabled alarms only (default: false)",
			Destination: &showEnabledOnly,
		},
		cli.StringFlag{
			Name:        "config-dir, C",
			Usage:       "use this flag to override the config directory",
			Destination: &configDir,
		},
	}
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if configDir != "" {
		if err := chimelib.SetConfigDir(configDir); err != nil {
			common.PrintRuntimeErr(ctx, "list", "set_config_dir", err)
			return nil
		}
	}
	store, err := chimelib.InitStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "init_store", err)
		return nil
	}
	defer store.Close()

	alarms := store.Alarms()
	if showEnabledOnly {
		var kept []chimelib.Alarm
		for _, a := range alarms {
			if a.Enabled {
				kept = append(kept, a)
			}
		}
		alarms = kept
	}
	if len(alarms) == 0 {
		fmt.Println("chime: no alarms set")
		return nil
	}
	fmt.Println(renderAlarmTable(alarms))
	return nil
}

// renderAlarmTable formats alarms with their 1-based display ordinals.
// The menu and the list command share it.
func renderAlarmTable(alarms []chimelib.Alarm) string {
	txt := "Here are your alarms:"
	txt += "\n\n-----------------------------------------------------------------"
	txt += "\n|Num| Time  |          Label          | Schedule |  Tone  | State |"
	txt += "\n|---|-------|-------------------------|----------|--------|-------|"
	for i, a := range alarms {
		label := a.Label
		n := len(label)
		switch {
		case n > 23:
			label = label[:20] + "..."
		case n < 23:
			label = common.Beaut(label, 23)
		}
		sched := "daily"
		if a.Cron != "" {
			sched = "cron"
		}
		txt += fmt.Sprintf("\n| %d | %s | %s | %s | %s | %s |",
			i+1,
			a.Time.String(),
			label,
			common.Beaut(sched, 8),
			common.Beaut(toneName(a.Tone), 6),
			common.Beaut(alarmState(a), 5),
		)
	}
	txt += "\n-----------------------------------------------------------------"
	return txt
}

func alarmState(a chimelib.Alarm) string {
	switch {
	case !a.Enabled:
		return "off"
	case a.Snoozed:
		return fmt.Sprintf("zz(%d)", a.SnoozeCount)
	default:
		return "on"
	}
}

func toneName(path string) string {
	name := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			name = path[i+1:]
			break
		}
	}
	if len(name) > 6 {
		name = name[:6]
	}
	return name
}
