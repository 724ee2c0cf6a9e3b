package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fsynth",
	Short: "A filesystem operation planning and execution tool",
	Long: `fsynth plans and executes batches of filesystem mutations —
file and directory creation, copy, move, symlink, delete, and
archive/unarchive — described as a YAML plan file and run through one
of four execution models.`,
}

// Execute runs the root command, printing any error to stderr and
// exiting with status 1. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newPlanCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fsynth version dev")
	},
}
