package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/renderengine/internal/config"
	"github.com/l1jgo/renderengine/internal/data"
	"github.com/l1jgo/renderengine/internal/engine"
	"github.com/l1jgo/renderengine/internal/persist"
	"github.com/l1jgo/renderengine/internal/scene"
	"github.com/l1jgo/renderengine/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg := config.Default()
	if p := os.Getenv(config.EnvPath); p != "" {
		var err error
		if cfg, err = config.Load(p); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	// 3. Input bindings
	bindings := data.DefaultBindings()
	if cfg.Input.BindingsFile != "" {
		if bindings, err = data.LoadKeyBindings(cfg.Input.BindingsFile); err != nil {
			return fmt.Errorf("load key bindings: %w", err)
		}
	}
	log.Info("key bindings loaded", zap.Int("keys", bindings.Count()))

	// 4. Engine and Lua scripting
	eng := engine.New(cfg, nil, log)
	defer eng.Close()

	lua, err := scripting.NewEngine(cfg.Scripting.Dir, eng.Objects(), log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer lua.Close()

	// 5. Build the demo scene
	d := buildDemo(eng, lua, bindings, log)
	defer d.release()
	if err := scene.PrintTree(os.Stdout, d.scene.Get().Root().Get()); err != nil {
		return fmt.Errorf("print scene: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Eval.Enabled {
		return evaluate(ctx, cfg, eng, log)
	}

	// 6. Frame loop
	if err := eng.Run(ctx); err != nil {
		return fmt.Errorf("frame loop: %w", err)
	}
	log.Info("stopped", zap.Int("frames", eng.Frames()), zap.Int("rendered", eng.Rendered()))
	return nil
}

// evaluate runs the configured camera path and optionally stores the timings.
func evaluate(ctx context.Context, cfg *config.Config, eng *engine.Engine, log *zap.Logger) error {
	path, err := data.LoadCameraPath(cfg.Eval.CameraPath)
	if err != nil {
		return fmt.Errorf("camera path: %w", err)
	}

	run, err := eng.RunEval(ctx, path, cfg.Eval.Label)
	if errors.Is(err, context.Canceled) {
		log.Warn("evaluation interrupted", zap.Int("frames", len(run.Frames)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if !cfg.Eval.StoreResults {
		return nil
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := persist.Open(dbCtx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	repo := persist.NewRunRepo(db)
	if err := repo.SaveRun(dbCtx, run); err != nil {
		return fmt.Errorf("store run: %w", err)
	}
	recent, err := repo.RecentRuns(dbCtx, cfg.Eval.Label, 5)
	if err != nil {
		return fmt.Errorf("recent runs: %w", err)
	}
	for _, r := range recent {
		log.Info("stored run",
			zap.String("run", r.ID.String()),
			zap.Time("started", r.StartedAt),
			zap.Int("frames", r.Frames),
			zap.Duration("mean", r.MeanFrame),
		)
	}
	return nil
}

// startProfile starts pkg/profile in the configured mode and returns its
// stop function, or nil when profiling is off.
func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	case "trace":
		mode = profile.TraceProfile
	default:
		return nil
	}
	opts := []func(*profile.Profile){mode, profile.NoShutdownHook, profile.Quiet}
	if cfg.Path != "" {
		opts = append(opts, profile.ProfilePath(cfg.Path))
	}
	return profile.Start(opts...).Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
