// Package main provides atsctl, a command-line front end for scoring resumes.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"smart-ats/internal/shared/telemetry"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "atsctl",
	Short: "Smart ATS resume scoring",
	Long:  "atsctl scores a resume against a job description using lexical similarity, skill overlap and a language model.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		telemetry.SetOutput(telemetry.ConsoleOutput(cmd.ErrOrStderr()))
		telemetry.SetLevel(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Minimum log level written to stderr")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
