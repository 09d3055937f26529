package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/etsvibes/ets-vibes/internal/cli"
	"github.com/etsvibes/ets-vibes/pkg/log"
)

func init() {
	h, err := log.CreateHandler(os.Stderr, "warn", log.FormatText)
	if err != nil {
		panic(err)
	}

	slog.SetDefault(slog.New(h))
}

const (
	cmdName = "ets-vibes"

	shortDesc = "Save editor for Euro Truck Simulator 2 and American Truck Simulator."
	longDesc  = `ETS-Vibes edits Euro Truck Simulator 2 and American Truck Simulator saves.

It finds profiles and saves of every installed game, reads encrypted (ScsC)
and plain text saves, and sets money, experience or any other property. The
first edit of a save keeps a game.sii.backup next to it.

Binary (BSII) saves are not supported. Set "g_save_format 2" in the game's
config.cfg to make the game write text saves.
`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
