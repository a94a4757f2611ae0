package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsrace/writeburst/internal/state"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "writeburst", rootCmd.Use)

	expectedCmds := []string{"run", "check", "version"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range expectedCmds {
		assert.True(t, cmdMap[expected], "expected subcommand %q not found", expected)
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "writeburst dev")
}

func TestRunCommand_CleanExitConsumesStateFile(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state")
	t.Setenv("WRITEBURST_STATE_FILE", statePath)
	t.Setenv("WRITEBURST_BURST_TARGET_DIR", t.TempDir())
	t.Setenv("WRITEBURST_BURST_STRATEGY", "barrier")
	t.Setenv("WRITEBURST_BURST_ARTIFACT_COUNT", "10")
	t.Setenv("WRITEBURST_BURST_RACER_COUNT", "1")
	t.Setenv("WRITEBURST_BURST_START_DELAY_SECONDS", "0")
	t.Setenv("WRITEBURST_STATE_HEARTBEAT_INTERVAL_MS", "100")
	t.Setenv("WRITEBURST_LOGGING_LEVEL", "error")

	type result struct {
		output string
		err    error
	}
	resCh := make(chan result, 1)
	go func() {
		output, err := executeCommand(rootCmd, "run")
		resCh <- result{output, err}
	}()

	// The running record goes down before any worker starts.
	require.Eventually(t, func() bool {
		_, err := os.Stat(statePath)
		return err == nil
	}, 10*time.Second, 10*time.Millisecond)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	var res result
	select {
	case res = <-resCh:
	case <-time.After(20 * time.Second):
		t.Fatal("run command did not exit after SIGTERM")
	}
	require.NoError(t, res.err)
	assert.Contains(t, res.output, "final statistics")

	// A clean stop leaves no state file, so the next run sees no crash.
	_, statErr := os.Stat(statePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckCommand_NoEvidence(t *testing.T) {
	t.Setenv("WRITEBURST_STATE_FILE", filepath.Join(t.TempDir(), "state"))

	output, err := executeCommand(rootCmd, "check", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, output, "No crash evidence")
}

func TestCheckCommand_CrashEvidenceYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	t.Setenv("WRITEBURST_STATE_FILE", path)

	store := state.NewStore(path)
	require.NoError(t, store.Save(state.Snapshot{
		RunID:      uuid.New(),
		StartTime:  time.Now().Add(-90 * time.Second),
		LastUpdate: time.Now(),
		Cycles:     42,
		Operations: 4200,
		Running:    true,
		Status:     "running",
	}))

	output, err := executeCommand(rootCmd, "check", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, output, "crashed: true")
	assert.Contains(t, output, "cycles: 42")

	// Evidence is consumed on read.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckCommand_CleanStopIsNotEvidence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	t.Setenv("WRITEBURST_STATE_FILE", path)

	store := state.NewStore(path)
	require.NoError(t, store.Save(state.Snapshot{
		RunID:      uuid.New(),
		StartTime:  time.Now().Add(-time.Minute),
		LastUpdate: time.Now(),
		Running:    false,
		Status:     "stopped",
	}))

	output, err := executeCommand(rootCmd, "check", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, output, "No crash evidence")
}

func TestCheckCommand_UnknownFormat(t *testing.T) {
	t.Setenv("WRITEBURST_STATE_FILE", filepath.Join(t.TempDir(), "state"))

	_, err := executeCommand(rootCmd, "check", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
