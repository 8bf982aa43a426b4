package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/chimeapp/chime/cmd/common"
	"github.com/chimeapp/chime/pkg/chimelib"
)

var (
	forceFlush bool

	flsFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "use this flag to force flush (default: false)",
			Destination: &forceFlush,
		},
		cli.StringFlag{
			Name:        "config-dir, C",
			Usage:       "use this flag to override the config directory",
			Destination: &configDir,
		},
	}
)

type (
	confirmAction interface {
		action() string
	}
	command string
)

func (a command) action() string {
	return strings.Join([]string{string(a), "command"}, " ")
}

func confirmOp(c confirmAction, force ...bool) bool {
	if len(force) != 0 && force[0] {
		return true
	}
	fmt.Printf("Are you sure you want to proceed with the %s? (yes/no): ", c.action())
	var i string
	_, _ = fmt.Scanf("%s", &i)
	i = strings.ToLower(i)
	switch i {
	case "yes", "y", "true", "1":
		return true
	default:
		fmt.Printf("Cancelled %s operation!\n", c)
		return false
	}
}

func flush(ctx *cli.Context) error {
	if !confirmOp(command("flush"), forceFlush) {
		return nil
	}
	if configDir != "" {
		if err := chimelib.SetConfigDir(configDir); err != nil {
			common.PrintRuntimeErr(ctx, "flush", "set_config_dir", err)
			return nil
		}
	}
	store, err := chimelib.InitStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "flush", "init_store", err)
		return nil
	}
	defer store.Close()
	if err = store.Flush(); err != nil {
		common.PrintRuntimeErr(ctx, "flush", "flush", err)
		return nil
	}
	fmt.Println("Flushed all alarms!")
	return nil
}
