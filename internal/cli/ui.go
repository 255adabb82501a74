package cli

import (
	"context"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/hostmon/internal/stats"
	"github.com/agbru/hostmon/internal/ui"
)

const (
	// BarWidth defines the width in characters of the usage bars.
	BarWidth = 30
	// SpinnerRefreshRate defines the refresh frequency of the wait spinner.
	SpinnerRefreshRate = 100 * time.Millisecond
	// warnThreshold is the usage percentage from which a bar turns yellow.
	warnThreshold = 70.0
	// errThreshold is the usage percentage from which a bar turns red.
	errThreshold = 90.0
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It decouples the collection wait from a specific spinner implementation,
// which keeps the one-shot path testable without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// CollectFunc produces one snapshot. Matches the cache's collect signature.
type CollectFunc func(ctx context.Context) (stats.Snapshot, error)

// CollectWithSpinner runs one collection cycle with a wait spinner on the
// given writer option set. The spinner is cosmetic; collection itself is
// usually sub-millisecond but the first cycle can block on a cold cache.
//
// Parameters:
//   - ctx: Context governing the collection.
//   - collect: The collection function to invoke.
//   - options: Spinner options, typically spinner.WithWriter(os.Stderr).
//
// Returns:
//   - stats.Snapshot: The collected snapshot.
//   - error: Any collection error.
func CollectWithSpinner(ctx context.Context, collect CollectFunc, options ...spinner.Option) (stats.Snapshot, error) {
	sp := newSpinner(options...)
	sp.UpdateSuffix(" collecting host statistics...")
	sp.Start()
	defer sp.Stop()

	return collect(ctx)
}

// usageBar generates a colorized textual usage bar.
//
// Parameters:
//   - percent: The usage value (0.0 to 100.0).
//   - length: The total character width of the bar.
//   - t: The active theme for colorization.
//
// Returns:
//   - string: A string representation of the bar.
func usageBar(percent float64, length int, t ui.Theme) string {
	if percent > 100.0 {
		percent = 100.0
	}
	if percent < 0.0 {
		percent = 0.0
	}

	color := t.Success
	switch {
	case percent >= errThreshold:
		color = t.Error
	case percent >= warnThreshold:
		color = t.Warning
	}

	count := int(percent / 100.0 * float64(length))
	var builder strings.Builder
	builder.Grow(length + len(color) + len(t.Reset))
	builder.WriteString(color)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	builder.WriteString(t.Reset)
	return builder.String()
}
