package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"asteroids/internal/config"
	"asteroids/internal/game"
	"asteroids/internal/logging"
	"asteroids/internal/spectate"
	"asteroids/internal/telemetry"
	"asteroids/internal/terminal"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: built-in settings)")
	seed := flag.Uint64("seed", 0, "Random seed (0 picks one)")
	headless := flag.Bool("headless", false, "Run without a terminal, driven by the autopilot")
	frames := flag.Int("frames", 3600, "Frame limit for -headless")
	qr := flag.Bool("qr", false, "Print the spectator URL as a QR code")
	hashPassword := flag.String("hash-password", "", "Print the bcrypt hash of a spectator password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := spectate.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runFlags{seed: *seed, headless: *headless, frames: *frames, qr: *qr}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runFlags struct {
	seed     uint64
	headless bool
	frames   int
	qr       bool
}

func run(ctx context.Context, cfg config.Config, f runFlags) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	var (
		store *telemetry.Store
		sinks []telemetry.Sink
		tels  []game.Telemetry
	)
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.DBPath != "" {
			store, err = telemetry.OpenStore(cfg.Telemetry.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()
			sinks = append(sinks, store)
		}
		if cfg.Telemetry.JSONLPath != "" {
			jsonl, err := telemetry.OpenJSONL(cfg.Telemetry.JSONLPath)
			if err != nil {
				return err
			}
			defer jsonl.Close()
			sinks = append(sinks, jsonl)
		}
	}
	if len(sinks) > 0 {
		rec := telemetry.NewRecorder(runID, telemetry.RecorderOptions{
			QueueSize:     cfg.Telemetry.QueueSize,
			BatchSize:     cfg.Telemetry.BatchSize,
			FlushInterval: cfg.Telemetry.FlushInterval,
		}, log, sinks...)
		defer rec.Close()
		tels = append(tels, rec)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	if cfg.Spectate.Enabled {
		auth, err := spectate.NewAuth(cfg.Spectate.PasswordHash, cfg.Spectate.JWTSecret)
		if err != nil {
			return fmt.Errorf("spectator auth: %w", err)
		}
		var scores spectate.ScoreSource
		if store != nil {
			scores = store
		}
		hub := spectate.NewHub(runID, spectate.Options{
			MaxConns:      cfg.Spectate.MaxConns,
			MaxConnsPerIP: cfg.Spectate.MaxConnsPerIP,
		}, auth, scores, log)
		tels = append(tels, hub)

		group.Go(func() error {
			hub.Run(ctx)
			return nil
		})
		group.Go(func() error {
			return spectate.Serve(ctx, cfg.Spectate.Addr, hub)
		})
		if f.qr {
			if err := printQR(spectatorURL(cfg.Spectate.Addr)); err != nil {
				log.Warn("qr code", zap.Error(err))
			}
		}
	}

	g, err := game.New(cfg.Game, game.Options{
		Seed:      f.seed,
		Logger:    log,
		Telemetry: telemetry.Multi(tels...),
	})
	if err != nil {
		return err
	}
	if store != nil {
		if err := store.BeginRun(runID, g.Seed()); err != nil {
			log.Warn("record run start", zap.Error(err))
		}
	}

	var res game.Result
	group.Go(func() error {
		defer cancel()
		var err error
		res, err = play(ctx, g, cfg, f, log)
		return err
	})
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if store != nil {
		if err := store.FinishRun(runID, res); err != nil {
			log.Warn("record run result", zap.Error(err))
		}
	}
	report(os.Stdout, res, store, log)
	return nil
}

func play(ctx context.Context, g *game.Game, cfg config.Config, f runFlags, log *zap.Logger) (game.Result, error) {
	if f.headless {
		return g.RunFrames(ctx, game.NewAutopilot(g, g.Seed()), nil, f.frames), nil
	}

	screen, err := terminal.Open(terminal.Options{
		Background: cfg.Render.Background,
		HoldWindow: cfg.Render.HoldWindow,
	}, log)
	if err != nil {
		return game.Result{}, fmt.Errorf("terminal: %w", err)
	}
	defer screen.Close()

	if cfg.Audio.Enabled {
		defer startAudio(g, cfg.Audio, log)()
	}

	screen.Start(ctx)
	return g.Run(ctx, screen, screen), nil
}

func spectatorURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "ws://" + addr + "/ws"
}

func printQR(url string) error {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return err
	}
	fmt.Println(code.ToSmallString(false))
	fmt.Println(url)
	return nil
}
