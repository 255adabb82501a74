package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/briandowns/spinner"

	"github.com/agbru/hostmon/internal/config"
	apperrors "github.com/agbru/hostmon/internal/errors"
	"github.com/agbru/hostmon/internal/stats"
)

// fakeSpinner records lifecycle calls without touching the terminal.
type fakeSpinner struct {
	started bool
	stopped bool
	suffix  string
}

func (f *fakeSpinner) Start()                     { f.started = true }
func (f *fakeSpinner) Stop()                      { f.stopped = true }
func (f *fakeSpinner) UpdateSuffix(suffix string) { f.suffix = suffix }

func withFakeSpinner(t *testing.T) *fakeSpinner {
	t.Helper()
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(options ...spinner.Option) Spinner { return fake }
	t.Cleanup(func() { newSpinner = orig })
	return fake
}

func TestCollectWithSpinner_Lifecycle(t *testing.T) {
	fake := withFakeSpinner(t)

	want := testSnapshot()
	got, err := CollectWithSpinner(context.Background(), func(ctx context.Context) (stats.Snapshot, error) {
		if !fake.started {
			t.Error("spinner should be running during collection")
		}
		return want, nil
	})
	if err != nil {
		t.Fatalf("CollectWithSpinner() returned error: %v", err)
	}
	if got.Hostname != want.Hostname {
		t.Errorf("Hostname = %q, want %q", got.Hostname, want.Hostname)
	}
	if !fake.stopped {
		t.Error("spinner should be stopped after collection")
	}
	if fake.suffix == "" {
		t.Error("spinner suffix should be set")
	}
}

func TestCollectWithSpinner_StopsOnError(t *testing.T) {
	fake := withFakeSpinner(t)

	wantErr := errors.New("boom")
	_, err := CollectWithSpinner(context.Background(), func(ctx context.Context) (stats.Snapshot, error) {
		return stats.Snapshot{}, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
	if !fake.stopped {
		t.Error("spinner should be stopped after a failed collection")
	}
}

func TestRunOnce_Success(t *testing.T) {
	withFakeSpinner(t)
	withoutColors(t)

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), &out, &errOut,
		func(ctx context.Context) (stats.Snapshot, error) { return testSnapshot(), nil },
		config.AppConfig{})
	if code != apperrors.ExitSuccess {
		t.Fatalf("RunOnce() = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.Contains(out.String(), "web-01") {
		t.Errorf("report missing hostname:\n%s", out.String())
	}
}

func TestRunOnce_Quiet(t *testing.T) {
	withFakeSpinner(t)
	withoutColors(t)

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), &out, &errOut,
		func(ctx context.Context) (stats.Snapshot, error) { return testSnapshot(), nil },
		config.AppConfig{Quiet: true})
	if code != apperrors.ExitSuccess {
		t.Fatalf("RunOnce() = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.HasPrefix(out.String(), "cpu=") {
		t.Errorf("quiet output = %q, want cpu= prefix", out.String())
	}
}

func TestRunOnce_CollectionError(t *testing.T) {
	withFakeSpinner(t)

	var out, errOut bytes.Buffer
	code := RunOnce(context.Background(), &out, &errOut,
		func(ctx context.Context) (stats.Snapshot, error) {
			return stats.Snapshot{}, apperrors.CollectionError{Stage: "cpu", Cause: errors.New("boom")}
		},
		config.AppConfig{})
	if code != apperrors.ExitErrorGeneric {
		t.Fatalf("RunOnce() = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(errOut.String(), "cpu") {
		t.Errorf("error output should name the failed stage, got %q", errOut.String())
	}
}

func TestRunOnce_Canceled(t *testing.T) {
	withFakeSpinner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := RunOnce(ctx, &out, &errOut,
		func(ctx context.Context) (stats.Snapshot, error) { return stats.Snapshot{}, ctx.Err() },
		config.AppConfig{})
	if code != apperrors.ExitErrorCanceled {
		t.Fatalf("RunOnce() = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}
