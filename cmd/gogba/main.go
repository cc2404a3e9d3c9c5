package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/arn-dahl/gogba/gba"
	"github.com/arn-dahl/gogba/gba/backend"
	"github.com/arn-dahl/gogba/gba/backend/terminal"
	"github.com/arn-dahl/gogba/gba/input"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
)

func main() {
	app := cli.NewApp()
	app.Name = "gogba"
	app.Description = "A handheld console emulator core"
	app.Usage = "gogba [options] <cartridge image>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "cart",
			Usage: "Path to the cartridge image",
		},
		cli.StringFlag{
			Name:  "firmware",
			Usage: "Path to the firmware image",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show a register debug panel",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running emulator", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cartPath := c.String("cart")
	if cartPath == "" {
		if c.NArg() > 0 {
			cartPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no cartridge path provided")
		}
	}

	console, err := gba.NewWithFiles(c.String("firmware"), cartPath)
	if err != nil {
		return fmt.Errorf("failed to load cartridge: %w", err)
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		return runHeadless(console, frames)
	}

	return runInteractive(console, c.Bool("debug"))
}

func runHeadless(console *gba.Console, frames int) error {
	for i := 0; i < frames; i++ {
		console.RunUntilFrame()
		if (i+1)%10 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}
	slog.Info("headless run completed", "frames", frames)
	return nil
}

func runInteractive(console *gba.Console, showDebug bool) error {
	b := terminal.New()
	manager := input.NewManager(console.Bus())

	err := b.Init(backend.BackendConfig{
		Title:         "gogba",
		ShowDebug:     showDebug,
		DebugProvider: console,
		AudioProvider: console.Audio(),
	})
	if err != nil {
		return err
	}
	defer b.Cleanup()

	paused := false
	stepOnce := false
	manager.On(action.EmulatorPauseToggle, event.Press, func() { paused = !paused })
	manager.On(action.EmulatorStepFrame, event.Press, func() { stepOnce = true })
	manager.On(action.EmulatorDebugToggle, event.Press, func() {
		showDebug = !showDebug
		b.SetShowDebug(showDebug)
	})
	manager.On(action.EmulatorSnapshot, event.Press, func() {
		snap := console.ExtractDebugData()
		slog.Info("snapshot taken", "pc", snap.PC, "cpsr", snap.CPSR)
	})

	frame := console.RunUntilFrame()
	for {
		if !paused || stepOnce {
			frame = console.RunUntilFrame()
			stepOnce = false
		}

		events, err := b.Update(frame)
		if err != nil {
			return err
		}

		quit := false
		for _, evt := range events {
			if evt.Action == action.EmulatorQuit && evt.Type == event.Press {
				quit = true
			}
			manager.Trigger(evt.Action, evt.Type)
		}
		if quit {
			return nil
		}
	}
}
