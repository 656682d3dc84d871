package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "focus-tools",
	Short: "Task prioritizer and writing challenge service",
	Long: `focus-tools hosts two small productivity tools: a task prioritizer that
ranks a list through Swiss-system head-to-head comparisons, and a writing
challenge that fails the writer when they stop typing for too long.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, rankCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
