package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/harvey/internal/assistant"
	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	cfg       *config.AppConfig
	assistant *assistant.Assistant
	rl        *readline.Instance
}

func NewReadLine(a *assistant.Assistant, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		assistant: a,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		result := r.assistant.Process(ctx, defaultSessionID, line)

		if config.IsDebug() {
			fmt.Fprintf(r.rl.Stdout(), "\033[38;5;240m[%s intent=%s confidence=%.2f]\033[0m\n",
				result.Code, result.Intent, result.Confidence)
		}
		fmt.Fprintf(r.rl.Stdout(), "%s\n", result.Response)
		if result.Degraded {
			fmt.Fprintln(r.rl.Stdout(), "(note: I couldn't save our conversation state)")
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
