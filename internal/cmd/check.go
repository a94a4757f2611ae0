package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fsrace/writeburst/internal/config"
	"github.com/fsrace/writeburst/internal/report"
	"github.com/fsrace/writeburst/internal/state"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Inspect crash evidence from a previous run",
	Long: `Check the state file left by a previous run.

A state file whose running flag is still set means the previous process was
terminated without a clean stop. The file is consumed by the check, so the
evidence is reported exactly once.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("format", "text", "output format: text or yaml")
}

// checkReport is the yaml shape of a check result.
type checkReport struct {
	Crashed   bool             `yaml:"crashed"`
	Forensics *state.Forensics `yaml:"forensics,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}

	store := state.NewStore(cfg.State.File)
	forensics, err := store.CheckPreviousRun()
	if err != nil {
		return fmt.Errorf("failed to check previous run: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == "yaml" {
		data, err := yaml.Marshal(checkReport{
			Crashed:   forensics != nil,
			Forensics: forensics,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	if forensics == nil {
		fmt.Fprintln(out, "No crash evidence from a previous run.")
		return nil
	}
	report.NewPrinter(out).Forensics(forensics)
	return nil
}
