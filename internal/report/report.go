// Package report renders writeburst's human-facing output: the startup
// banner, the per-heartbeat progress line, the final statistics and the
// previous-crash forensic summary.
//
// Rendering is split from styling so the content is testable: the format*
// functions produce plain deterministic text, and the Printer decides
// whether to dress it up based on whether it is talking to a terminal.
// Nothing here feeds back into the engine; output is for humans and log
// collectors only.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/fsrace/writeburst/internal/burst"
	"github.com/fsrace/writeburst/internal/config"
	"github.com/fsrace/writeburst/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	crashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Printer writes rendered output to a destination, styling it only when
// the destination is an interactive terminal.
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter creates a Printer for w. Styling is enabled only when w is a
// terminal.
func NewPrinter(w io.Writer) *Printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{out: w, styled: styled}
}

// Banner prints the run header: what is about to happen and with which
// knobs, so the console scrollback explains itself after a crash.
func (p *Printer) Banner(cfg *config.Config, runID string) {
	title := "writeburst: writeback/conversion race amplifier"
	if p.styled {
		title = titleStyle.Render(title)
	}
	fmt.Fprintln(p.out, title)
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "  run:        %s\n", runID)
	fmt.Fprintf(p.out, "  strategy:   %s\n", cfg.Burst.Strategy)
	fmt.Fprintf(p.out, "  target:     %s\n", cfg.Burst.TargetDir)
	fmt.Fprintf(p.out, "  artifacts:  %d\n", cfg.Burst.ArtifactCount)
	fmt.Fprintf(p.out, "  racers:     %d\n", cfg.Burst.RacerCount)
	fmt.Fprintf(p.out, "  state file: %s\n", cfg.State.File)
	fmt.Fprintln(p.out)

	warning := "WARNING: a successful run crashes this machine."
	if p.styled {
		warning = crashStyle.Render(warning)
	}
	fmt.Fprintln(p.out, warning)
}

// Progress prints one heartbeat line.
func (p *Printer) Progress(sample burst.Progress) {
	line := formatProgress(sample)
	if p.styled {
		line = mutedStyle.Render(line)
	}
	fmt.Fprintln(p.out, line)
}

// Forensics prints the previous-crash summary.
func (p *Printer) Forensics(f *state.Forensics) {
	text := formatForensics(f)
	if p.styled {
		head, rest, found := strings.Cut(text, "\n")
		if found {
			text = crashStyle.Render(head) + "\n" + rest
		}
	}
	fmt.Fprint(p.out, text)
}

// Final prints the end-of-run statistics. Reaching this line at all means
// the race did not fire this time.
func (p *Printer) Final(elapsed time.Duration, cycles, operations uint64) {
	fmt.Fprint(p.out, formatFinal(elapsed, cycles, operations))
}

// Clamps reports every configuration adjustment that was applied.
func (p *Printer) Clamps(adjustments []config.Adjustment) {
	for _, a := range adjustments {
		line := "config " + a.String()
		if p.styled {
			line = mutedStyle.Render(line)
		}
		fmt.Fprintln(p.out, line)
	}
}

// formatProgress renders a heartbeat sample as a single plain-text line.
func formatProgress(s burst.Progress) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%4ds] cycles=%d ops=%d rate=%.0f/s",
		int(s.Elapsed.Seconds()), s.Cycles, s.Operations, s.OpsPerSec)
	if s.Pressure != nil {
		fmt.Fprintf(&b, " dirty=%dKiB writeback=%dKiB",
			s.Pressure.Dirty/1024, s.Pressure.Writeback/1024)
	}
	return b.String()
}

// formatForensics renders the crash summary as plain text.
func formatForensics(f *state.Forensics) string {
	var b strings.Builder
	b.WriteString("=== PREVIOUS CRASH DETECTED ===\n")
	fmt.Fprintf(&b, "run id:      %s\n", f.RunID)
	fmt.Fprintf(&b, "ran for:     %s\n", f.Runtime)
	fmt.Fprintf(&b, "cycles:      %d\n", f.Cycles)
	fmt.Fprintf(&b, "operations:  %d\n", f.Operations)
	fmt.Fprintf(&b, "last status: %s\n", f.LastStatus)
	fmt.Fprintf(&b, "last update: %s\n", f.LastUpdate.UTC().Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

// formatFinal renders the end-of-run statistics as plain text.
func formatFinal(elapsed time.Duration, cycles, operations uint64) string {
	var b strings.Builder
	b.WriteString("final statistics:\n")
	fmt.Fprintf(&b, "  runtime:    %s\n", elapsed.Round(time.Second))
	fmt.Fprintf(&b, "  cycles:     %d\n", cycles)
	fmt.Fprintf(&b, "  operations: %d\n", operations)
	rate := uint64(0)
	if secs := uint64(elapsed.Seconds()); secs > 0 {
		rate = operations / secs
	}
	fmt.Fprintf(&b, "  rate:       %d ops/sec\n", rate)
	b.WriteString("\nthe machine survived, so the race did not fire this time\n")
	return b.String()
}
