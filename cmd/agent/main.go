package main

import (
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/screenshare/agent/internal/accessor"
	"github.com/screenshare/agent/internal/accessor/platform"
	"github.com/screenshare/agent/internal/agent"
	"github.com/screenshare/agent/internal/config"
	"github.com/screenshare/agent/internal/fatal"
	"github.com/screenshare/agent/internal/logging"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "agent"
	myApp.Usage = "screen mirroring agent"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "socket",
			Usage: "abstract unix socket name the peer is listening on (required)",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "info",
			Usage: "verbose, debug, info, warn, error",
		},
		cli.StringFlag{
			Name:  "max_size",
			Usage: "W,H cap on emitted video resolution (both > 0); omit for uncapped",
		},
		cli.IntFlag{
			Name:  "orientation",
			Usage: "freeze the device rotation to this quadrant (0-3) for the session",
		},
		cli.IntFlag{
			Name:  "max_bit_rate",
			Usage: "video bit rate cap in bits/second, 0 for the 10 Mbit/s default",
		},
		cli.StringFlag{
			Name:  "codec",
			Value: "h264",
			Usage: "h264, h265, vp8, vp9, av01",
		},
		cli.IntFlag{
			Name: "flags",
			Usage: "feature bitmask: 1 start video stream, 2 turn off display, " +
				"4 stream audio, 8 use uinput, 16 auto reset UI, 32 debug layout, 64 gesture nav",
		},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		if fe, ok := fatal.As(err); ok {
			logging.Fatalf("%v", fe)
			os.Exit(int(fe.Code))
		}
		logging.Fatalf("%v", err)
		os.Exit(int(fatal.Generic))
	}
}

func run(c *cli.Context) error {
	level, ok := logging.ParseLevel(c.String("log"))
	if !ok {
		return fatal.New(fatal.InvalidCLI, "unrecognized --log level %q", c.String("log"))
	}
	logging.Init(level)

	cfg, err := buildConfig(c)
	if err != nil {
		return fatal.Wrap(fatal.InvalidCLI, err)
	}

	deps, cleanup, err := buildDeps()
	defer cleanup()
	if err != nil {
		return err
	}

	a, err := agent.New(cfg, deps)
	if err != nil {
		return err
	}

	runErr := a.Run()
	a.Shutdown()
	return runErr
}

func buildConfig(c *cli.Context) (config.Config, error) {
	maxSize, err := config.ParseSize(c.String("max_size"))
	if err != nil {
		return config.Config{}, err
	}

	cfg := config.Config{
		Socket:      c.String("socket"),
		LogLevel:    c.String("log"),
		MaxSize:     maxSize,
		Orientation: int32(c.Int("orientation")),
		Flags:       uint32(c.Int("flags")),
		MaxBitRate:  c.Int("max_bit_rate"),
		Codec:       c.String("codec"),
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildDeps wires the real internal/accessor/platform bindings into
// agent.Deps. The returned cleanup func is always safe to call, even on
// a partial failure, and must run exactly once regardless of how run()
// returns.
func buildDeps() (agent.Deps, func(), error) {
	clip, err := platform.NewClipboardManager()
	cleanup := func() {
		if clip != nil {
			clip.Close()
		}
	}
	if err != nil {
		logging.Warnf("platform: clipboard unavailable: %v", err)
	}

	deps := agent.Deps{
		Displays:    platform.NewDisplayManager(),
		Window:      platform.NewWindowManager(),
		DeviceState: platform.NewDeviceStateManager(),
		Input:       platform.NewInputManager(),
		Surfaces:    platform.NewSurfaceControl(),
		Codecs:      platform.NewCodecProvider(),
	}
	if clip == nil {
		// A nil *platform.ClipboardManager boxed directly into the
		// accessor.ClipboardManager interface would be a non-nil interface
		// wrapping a nil pointer, so assign the typed nil-safe stub instead
		// of clip in this branch.
		deps.Clipboard = noClipboard{}
	} else {
		deps.Clipboard = clip
	}
	return deps, cleanup, nil
}

// noClipboard is the fallback when the host has no reachable clipboard;
// every call reports accessor.ErrUnsupported exactly like the other
// platform.* stubs.
type noClipboard struct{}

func (noClipboard) GetText() (string, error)                   { return "", accessor.ErrUnsupported }
func (noClipboard) SetText(string) error                       { return accessor.ErrUnsupported }
func (noClipboard) AddListener(accessor.ClipboardListener) int  { return 0 }
func (noClipboard) RemoveListener(accessor.ClipboardListener) int { return 0 }
