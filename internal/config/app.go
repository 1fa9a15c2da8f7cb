package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/harvey/pkg/log"
)

// GetRuntimePath resolves the runtime directory before configs are parsed,
// so the .env file inside it can be loaded first.
func GetRuntimePath() string {
	if p := os.Getenv("HARVEY_RUNTIME_PATH"); p != "" {
		return p
	}
	return ".harvey"
}

type AppConfig struct {
	RuntimePath string `env:"HARVEY_RUNTIME_PATH" envDefault:".harvey"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// DisabledSkills lists built-in skills to register but keep switched
	// off, by name.
	DisabledSkills []string `env:"SKILLS_DISABLED" envSeparator:","`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "harvey.db")
}

func (c AppConfig) GetPatternsPath() string {
	return filepath.Join(c.RuntimePath, "intents.yaml")
}

func (c AppConfig) GetGazetteerPath() string {
	return filepath.Join(c.RuntimePath, "gazetteer.yaml")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
