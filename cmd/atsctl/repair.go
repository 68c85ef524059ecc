package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"smart-ats/internal/repair"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair a raw model answer read from stdin",
	Long:  "Locates the JSON object in a model answer, fixes common formatting mistakes and prints the indented record.",
	Args:  cobra.NoArgs,
	RunE:  runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	res := repair.Repair(string(raw))
	out := cmd.OutOrStdout()
	if res.OK() {
		_, err := fmt.Fprintln(out, res.Record.Pretty)
		return err
	}

	if res.Repaired != "" {
		fmt.Fprintln(out, "Cleaned response:")
		fmt.Fprintln(out, res.Repaired)
	}
	return errors.New("unable to repair response: " + res.Reason)
}
