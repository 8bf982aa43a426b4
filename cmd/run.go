package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/chimeapp/chime/cmd/common"
	"github.com/chimeapp/chime/internal/ring"
	"github.com/chimeapp/chime/internal/scheduler"
	"github.com/chimeapp/chime/pkg/chimelib"
	"github.com/chimeapp/chime/pkg/logger"
	"github.com/chimeapp/chime/pkg/sound"
)

var (
	scanInterval   time.Duration
	responseWindow time.Duration
	configDir      string

	runFlags = []cli.Flag{
		cli.DurationFlag{
			Name:        "scan-interval, s",
			Usage:       "how often the monitor checks for due alarms",
			Value:       DEF_SCAN_INTERVAL,
			Destination: &scanInterval,
		},
		cli.DurationFlag{
			Name:        "response-window, w",
			Usage:       "how long a ringing alarm waits before auto-snoozing",
			Value:       DEF_RESPONSE_WINDOW,
			Destination: &responseWindow,
		},
		cli.StringFlag{
			Name:        "config-dir, C",
			Usage:       "use this flag to override the config directory",
			Destination: &configDir,
		},
	}
)

func run(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	l := logger.NewStandardLogger(log.New(os.Stderr, "chime: ", log.LstdFlags))
	defer l.Close()

	if configDir != "" {
		if err := chimelib.SetConfigDir(configDir); err != nil {
			common.PrintRuntimeErr(ctx, "run", "set_config_dir", err)
			return nil
		}
	}
	if err := chimelib.EnsureToneDir(); err != nil {
		common.PrintRuntimeErr(ctx, "run", "ensure_tones", err)
		return nil
	}
	store, err := chimelib.InitStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "run", "init_store", err)
		return nil
	}
	defer store.Close()

	con := newConsole(os.Stdin, os.Stdout)
	con.start()

	ui := &ringUI{con: con, out: os.Stdout, window: responseWindow}
	coord := ring.New(store, sound.Pick(os.Stdout, l), ui, l, &ring.Options{
		Window: responseWindow,
	})
	loop := scheduler.New(store, coord, l, &scheduler.Options{
		Interval: scanInterval,
	})
	coord.OnSnooze(loop.Watch)

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(appCtx)

	// Ctrl+C dismisses a ringing alarm; at the menu it ends the session.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			if !coord.Interrupt() {
				cancel()
				return
			}
		}
	}()

	m := &menu{con: con, store: store, log: l}
	m.run(appCtx)

	cancel()
	loop.Wait()
	fmt.Println("Goodbye!")
	return nil
}
