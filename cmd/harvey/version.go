package main

import (
	"fmt"

	"github.com/sandevgo/harvey/internal/core"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Harvey version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", core.HarveyName, core.HarveyVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
