package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/harvey/internal/assistant"
	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/internal/core"
	"github.com/sandevgo/harvey/internal/memory"
	"github.com/sandevgo/harvey/internal/nlu"
	"github.com/sandevgo/harvey/internal/session"
	"github.com/sandevgo/harvey/internal/skill"
	"github.com/sandevgo/harvey/internal/skill/builtin"
	"github.com/sandevgo/harvey/internal/storage/sqlite"
	"github.com/sandevgo/harvey/internal/transport/cli"
	"github.com/sandevgo/harvey/internal/transport/telegram"
	"github.com/sandevgo/harvey/pkg/log"
	"github.com/sandevgo/harvey/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	nluCfg := config.NewNLUConfig(ctx)
	memCfg := config.NewMemoryConfig(ctx)

	// 2. Storage. A broken database is not fatal: the assistant keeps
	// answering with an in-process store and flags responses as degraded
	// where persistence matters.
	memStore, cleanup := initStorage(ctx, appCfg)
	if cleanup != nil {
		services = append(services, srv.NewCleanup(cleanup))
	}

	// 3. Long-term memory and its background sweeper
	mem := memory.New(memCfg, memStore)
	services = append(services, memory.NewSweeper(memStore, memCfg.SweepInterval))

	// 4. NLU engine
	engine := initNLU(ctx, appCfg, nluCfg)

	// 5. Skills
	registry := initSkills(ctx, appCfg, mem)

	// 6. Orchestrator
	sessions := session.NewStore()
	a := assistant.New(nluCfg, engine, registry, sessions)

	// 7. Transports
	transports, err := initTransports(ctx, appCfg, a)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.MemoryStore, func() error) {
	logger := log.FromCtx(ctx)

	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.GetDatabasePath()).
			Msg("database unavailable, long-term memory will not survive restarts")
		return memory.NewInMemoryStore(), nil
	}
	return sqlite.NewMemoryRepo(db), db.Close
}

func initNLU(ctx context.Context, appCfg *config.AppConfig, nluCfg *config.NLUConfig) *nlu.Engine {
	logger := log.FromCtx(ctx)

	gaz, err := nlu.LoadGazetteer(appCfg.GetGazetteerPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load gazetteer")
	}

	engine := nlu.NewEngine(nluCfg, nlu.NewMatcher(), nlu.NewExtractor(gaz, nluCfg.MaxEntities))
	if err := engine.LoadPatternsFile(ctx, appCfg.GetPatternsPath(), false); err != nil {
		// Invalid intents are already skipped; what loaded is usable.
		logger.Warn().Err(err).Msg("some intent definitions were rejected")
	}
	return engine
}

func initSkills(ctx context.Context, cfg *config.AppConfig, mem *memory.Memory) *skill.Registry {
	logger := log.FromCtx(ctx)
	registry := skill.NewRegistry()

	skills := []core.Skill{
		builtin.NewClock(),
		builtin.NewGreeting(),
		builtin.NewCalculator(),
		builtin.NewWeather(),
		builtin.NewSearch(),
		builtin.NewLauncher(),
		builtin.NewMemo(mem),
		builtin.NewHelp(registry),
	}
	for _, s := range skills {
		if err := registry.Register(s); err != nil {
			logger.Fatal().Err(err).Str("skill", s.Name()).Msg("failed to register skill")
		}
	}

	for _, name := range cfg.DisabledSkills {
		registry.Enable(name, false)
		logger.Info().Str("skill", name).Msg("skill disabled by configuration")
	}

	return registry
}

func initTransports(ctx context.Context, cfg *config.AppConfig, a *assistant.Assistant) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(a, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	// Telegram Bot
	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
