package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-neshost/neshost"
	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/backend/ebiten"
	"github.com/valerio/go-neshost/neshost/backend/headless"
	"github.com/valerio/go-neshost/neshost/backend/sdl2"
	"github.com/valerio/go-neshost/neshost/backend/terminal"
	"github.com/valerio/go-neshost/neshost/config"
	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/core/testpattern"
	"github.com/valerio/go-neshost/neshost/core/wasmcore"
	"github.com/valerio/go-neshost/neshost/diagnostics"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/romloader"
)

func main() {
	app := cli.NewApp()
	app.Name = "neshost"
	app.Description = "Runs an NES emulation core in a terminal, a window or headless"
	app.Usage = "neshost [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (.nes, or a zip, gz, 7z or rar archive holding one)",
		},
		cli.StringFlag{
			Name:  "core",
			Usage: "Emulation core: \"testpattern\" or the path to a WebAssembly core",
			Value: "testpattern",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Host backend: terminal, headless, sdl2 or ebiten",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file",
		},
		cli.BoolFlag{
			Name:  "upscale",
			Usage: "Start in the 512x480 display mode",
		},
		cli.IntFlag{
			Name:  "light-gun-slot",
			Usage: "Attach a light gun to port 0 or 1 (-1 = use the configuration)",
			Value: -1,
		},
		cli.DurationFlag{
			Name:  "fps-interval",
			Usage: "Frame rate measurement interval, between 2s and 5s (0 = use the configuration)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
		cli.BoolFlag{
			Name:  "statsview",
			Usage: "Serve live runtime statistics (needs a build with -tags statsview)",
		},
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running neshost", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// backends may replace the default logger; errors are reported after they are gone
	defer slog.SetDefault(slog.Default())

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}

	emu, closeCore, err := newCore(c.String("core"))
	if err != nil {
		return err
	}
	defer closeCore()

	b, err := newBackend(c, romPath)
	if err != nil {
		return err
	}

	if c.Bool("statsview") {
		if diagnostics.StatsViewAvailable() {
			diagnostics.LaunchStatsView(os.Stderr)
		} else {
			slog.Warn("statsview requested but not compiled in, build with -tags statsview")
		}
	}

	title := "neshost"
	if romPath != "" {
		title += " - " + romPath
	}
	err = b.Init(backend.BackendConfig{
		Title:    title,
		Scale:    display.DefaultPixelScale,
		VSync:    true,
		LogLevel: level,
		Callbacks: backend.BackendCallbacks{
			OnQuit: func() { slog.Info("Backend stopped") },
		},
	})
	if err != nil {
		return err
	}
	defer b.Cleanup()

	publishers := []diagnostics.Publisher{diagnostics.LogPublisher{Level: slog.LevelDebug}}
	if sd, ok := b.(backend.StatusDisplay); ok {
		publishers = append(publishers, diagnostics.PublisherFunc(func(s diagnostics.Summary) {
			sd.ShowStatus(s.String())
		}))
	}

	snapshotDir := c.String("snapshot-dir")
	if snapshotDir == "" {
		snapshotDir = os.TempDir()
	}
	h, err := neshost.New(emu, b, cfg,
		neshost.WithQuit(b.Quit),
		neshost.WithSnapshotDir(snapshotDir),
		neshost.WithPublishers(publishers...))
	if err != nil {
		return err
	}

	if romPath != "" {
		rom, err := romloader.Load(romPath)
		if err != nil {
			return err
		}
		slog.Info("Loaded ROM", "name", rom.Name, "mapper", rom.Header.Mapper)
		if err := h.LoadROM(rom.Data); err != nil {
			return err
		}
	} else if c.String("core") != "testpattern" {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}

	if err := h.Start(b.Surface()); err != nil {
		return err
	}
	if err := b.Run(); err != nil {
		return err
	}

	slog.Info("Final frame stats", "summary", h.Summary().String())
	return nil
}

// loadConfig reads the optional config file and applies command line overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.Bool("upscale") {
		cfg.Upscaled = true
	}
	if slot := c.Int("light-gun-slot"); slot >= 0 {
		cfg.Features.LightGun = true
		cfg.LightGun.Slot = slot
		// the gun replaces a joypad on the same port
		var controllers []int
		for _, s := range cfg.Controllers {
			if s != slot {
				controllers = append(controllers, s)
			}
		}
		cfg.Controllers = controllers
	}
	if d := c.Duration("fps-interval"); d != 0 {
		cfg.Diagnostics.Interval = d
	}
	return cfg, cfg.Validate()
}

func newCore(name string) (core.Core, func(), error) {
	if name == "testpattern" {
		return testpattern.New(), func() {}, nil
	}
	if !strings.HasSuffix(name, ".wasm") {
		return nil, nil, fmt.Errorf("unknown core %q", name)
	}

	wasm, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, fmt.Errorf("reading core: %w", err)
	}
	wc, err := wasmcore.New(context.Background(), wasm)
	if err != nil {
		return nil, nil, err
	}
	return wc, func() {
		if err := wc.Close(); err != nil {
			slog.Warn("Failed to close wasm core", "error", err)
		}
	}, nil
}

func newBackend(c *cli.Context, romPath string) (backend.Backend, error) {
	switch name := c.String("backend"); name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	case "ebiten":
		return ebiten.New(), nil
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, errors.New("headless mode requires --frames option with a positive value")
		}
		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(frames, snapshotConfig), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
