package cmd

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fsrace/writeburst/internal/burst"
	"github.com/fsrace/writeburst/internal/config"
	"github.com/fsrace/writeburst/internal/logging"
	"github.com/fsrace/writeburst/internal/platform"
	"github.com/fsrace/writeburst/internal/report"
	"github.com/fsrace/writeburst/internal/state"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the writeback race",
	Long: `Run the racing engine until interrupted.

Workers are pinned to CPUs and hammer the target directory in cycles; a
monitor heartbeats cumulative counters into the state file so that a crash
leaves evidence. Stop with SIGINT or SIGTERM for a clean exit.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("dir", "d", "", "target directory for artifact files")
	runCmd.Flags().IntP("files", "f", 0, "artifact files per cycle")
	runCmd.Flags().IntP("racers", "r", 0, "number of racer workers")
	runCmd.Flags().StringP("strategy", "s", "", "racing strategy: barrier or continuous")

	_ = viper.BindPFlag("burst.target_dir", runCmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("burst.artifact_count", runCmd.Flags().Lookup("files"))
	_ = viper.BindPFlag("burst.racer_count", runCmd.Flags().Lookup("racers"))
	_ = viper.BindPFlag("burst.strategy", runCmd.Flags().Lookup("strategy"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, adjustments, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	printer := report.NewPrinter(cmd.OutOrStdout())
	printer.Clamps(adjustments)

	store := state.NewStore(cfg.State.File)
	forensics, err := store.CheckPreviousRun()
	if err != nil {
		return fmt.Errorf("failed to check previous run: %w", err)
	}
	if forensics != nil {
		printer.Forensics(forensics)
		log.Warn("previous run crashed",
			"run_id", forensics.RunID.String(),
			"runtime", forensics.Runtime.String(),
			"cycles", forensics.Cycles,
			"operations", forensics.Operations)
	}

	if err := os.MkdirAll(cfg.Burst.TargetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}
	swept, err := burst.SweepStale(cfg.Burst.TargetDir)
	if err != nil {
		return fmt.Errorf("failed to sweep stale artifacts: %w", err)
	}
	if swept > 0 {
		log.Info("swept stale artifacts", "count", swept)
	}

	strategy, err := burst.ForName(cfg.Burst.Strategy)
	if err != nil {
		return err
	}

	ctx := burst.NewContext(cfg.Burst, log, platform.Native())
	monitor := burst.NewMonitor(ctx, store, cfg.State.HeartbeatInterval(), printer.Progress)

	uninstall := platform.InstallStopHandler(func() {
		ctx.Stop()
		// Written before the roles drain so even a shutdown that wedges
		// still reads as deliberate. The post-join save below supersedes it.
		if err := store.Save(monitor.Snapshot("stopped by signal", false)); err != nil {
			log.Warn("signal state save failed", "error", err.Error())
		}
	})
	defer uninstall()

	printer.Banner(cfg, ctx.RunID.String())

	if !waitStartDelay(ctx, cfg.Burst.StartDelay()) {
		log.Info("aborted during start delay")
		return nil
	}

	// The first running record goes down before any worker touches the
	// target directory, so even an instant crash leaves evidence.
	if err := store.Save(monitor.Snapshot("running", true)); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	log.Info("run started",
		"target_dir", cfg.Burst.TargetDir,
		"artifacts", cfg.Burst.ArtifactCount,
		"racers", cfg.Burst.RacerCount)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		strategy.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		monitor.Run()
	}()
	wg.Wait()

	// All workers have exited: the stopper's record is authoritative. Write
	// the not-running flag before removing so a failed remove still reads as
	// a clean stop.
	if err := store.Save(monitor.Snapshot("stopped", false)); err != nil {
		log.Warn("final state save failed", "error", err.Error())
	}
	if err := store.Remove(); err != nil {
		log.Warn("state file remove failed", "error", err.Error())
	}

	printer.Final(ctx.Elapsed(), ctx.Barrier.Cycles(), ctx.Operations())
	log.Info("run stopped",
		"elapsed", ctx.Elapsed().String(),
		"cycles", ctx.Barrier.Cycles(),
		"operations", ctx.Operations())
	return nil
}

// waitStartDelay gives the operator a window to abort before workers start.
// It returns false if the run was stopped during the delay.
func waitStartDelay(ctx *burst.Context, delay time.Duration) bool {
	deadline := time.Now().Add(delay)
	for time.Now().Before(deadline) {
		if !ctx.Running() {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
	return ctx.Running()
}
