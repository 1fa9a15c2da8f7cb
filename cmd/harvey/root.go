package main

import (
	"context"
	"os"

	"github.com/sandevgo/harvey/internal/config"
	"github.com/sandevgo/harvey/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "harvey",
	Short: "Harvey — a natural-language command assistant",
	Long:  `Harvey recognizes spoken-style commands and dispatches them to skills.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
