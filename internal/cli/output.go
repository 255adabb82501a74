// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplaySnapshot], [DisplayQuietSnapshot].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietSnapshot].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteSnapshotToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/hostmon/internal/format"
	"github.com/agbru/hostmon/internal/stats"
	"github.com/agbru/hostmon/internal/ui"
)

// OutputConfig holds configuration for snapshot output.
type OutputConfig struct {
	// OutputFile is the path to also save the report to (empty for no file output).
	OutputFile string
	// Quiet mode reduces output to a single machine-friendly line.
	Quiet bool
}

// FormatQuietSnapshot formats a snapshot as a single line suitable for
// scripting, for example:
//
//	cpu=18.6% mem_used=2048MiB mem_total=8192MiB load1=0.50
//
// Parameters:
//   - snap: The snapshot to format.
//
// Returns:
//   - string: The formatted single-line result.
func FormatQuietSnapshot(snap stats.Snapshot) string {
	return fmt.Sprintf("cpu=%.1f%% mem_used=%dMiB mem_total=%dMiB load1=%.2f",
		snap.CPU.Overall.TotalPercent,
		format.Mebibytes(snap.MemoryUsed),
		format.Mebibytes(snap.MemoryTotal),
		snap.Load1)
}

// DisplayQuietSnapshot outputs a snapshot in quiet mode (single line).
//
// Parameters:
//   - out: The output writer.
//   - snap: The snapshot to display.
func DisplayQuietSnapshot(out io.Writer, snap stats.Snapshot) {
	fmt.Fprintln(out, FormatQuietSnapshot(snap))
}

// DisplaySnapshot writes the full human-readable report: host identity,
// the CPU breakdown with per-core bars and the memory figures.
//
// Parameters:
//   - out: The output writer.
//   - snap: The snapshot to display.
func DisplaySnapshot(out io.Writer, snap stats.Snapshot) {
	t := ui.GetCurrentTheme()

	fmt.Fprintf(out, "%s%s%s%s up %s, load %.2f\n",
		t.Bold, t.Accent, snap.Hostname, t.Reset,
		format.Uptime(snap.Uptime), snap.Load1)
	fmt.Fprintf(out, "%scaptured %s%s\n\n",
		t.Dim, snap.CapturedAt.Format(time.RFC3339), t.Reset)

	fmt.Fprintf(out, "CPU   %s %s%5.1f%%%s  (user %.1f%%, system %.1f%%, nice %.1f%%)\n",
		usageBar(snap.CPU.Overall.TotalPercent, BarWidth, t),
		t.Accent, snap.CPU.Overall.TotalPercent, t.Reset,
		snap.CPU.Overall.UserPercent,
		snap.CPU.Overall.SystemPercent,
		snap.CPU.Overall.NicePercent)
	for i, core := range snap.CPU.PerCore {
		fmt.Fprintf(out, "  %-3d %s %s%5.1f%%%s\n",
			i, usageBar(core.TotalPercent, BarWidth, t),
			t.Dim, core.TotalPercent, t.Reset)
	}

	memPercent := 0.0
	if snap.MemoryTotal > 0 {
		memPercent = float64(snap.MemoryUsed) / float64(snap.MemoryTotal) * 100
	}
	fmt.Fprintf(out, "\nMem   %s %s%5.1f%%%s  %d / %d MiB used, %d MiB available, %d MiB cached\n",
		usageBar(memPercent, BarWidth, t),
		t.Accent, memPercent, t.Reset,
		format.Mebibytes(snap.MemoryUsed),
		format.Mebibytes(snap.MemoryTotal),
		format.Mebibytes(snap.MemoryAvailable),
		format.Mebibytes(snap.MemoryCached))
}

// DisplaySnapshotWithConfig displays a snapshot with the given output
// configuration. This is the unified entry point for all output modes.
//
// Parameters:
//   - out: The output writer.
//   - snap: The snapshot to display.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplaySnapshotWithConfig(out io.Writer, snap stats.Snapshot, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietSnapshot(out, snap)
	} else {
		DisplaySnapshot(out, snap)
	}

	if config.OutputFile != "" {
		if err := WriteSnapshotToFile(snap, config); err != nil {
			return err
		}
		if !config.Quiet {
			t := ui.GetCurrentTheme()
			fmt.Fprintf(out, "\n%sReport saved to: %s%s%s\n",
				t.Success, t.Accent, config.OutputFile, t.Reset)
		}
	}

	return nil
}

// WriteSnapshotToFile writes the snapshot report to a file, uncolored.
//
// Parameters:
//   - snap: The snapshot to write.
//   - config: Output configuration naming the destination.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteSnapshotToFile(snap stats.Snapshot, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Host Statistics Report\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Host: %s\n", snap.Hostname)
	fmt.Fprintf(file, "# Cores: %d\n", snap.CPU.CoreCount)
	fmt.Fprintf(file, "\n")

	// The file report is always uncolored regardless of the active theme.
	restore := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	DisplaySnapshot(file, snap)
	ui.SetCurrentTheme(restore)

	return nil
}
