package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// SpinnerProgressReporter shows the running stage behind a spinner and
// prints a line for every completed stage
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	quiet   bool
	current *StageInfo
	stages  []StageInfo
}

// StageInfo records a completed stage
type StageInfo struct {
	Stage     string
	Message   string
	StartTime time.Time
	EndTime   time.Time
}

// NewProgressSink creates the reporter for the CLI; --json output stays clean
func NewProgressSink(cfg *config.RuntimeConfig) *SpinnerProgressReporter {
	r := NewSpinnerProgressReporter(os.Stderr)
	r.quiet = cfg.JSON
	return r
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter writing to out
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
	}
}

// OnProgress completes the running stage and starts the next one
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completeCurrentStage()

	if !event.Spinner {
		fmt.Fprintln(r.out, event.Message)
		return
	}

	r.current = &StageInfo{Stage: event.Stage, Message: event.Message, StartTime: time.Now()}
	r.spinner.Suffix = " " + event.Message
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

// Stop completes the running stage and stops the spinner
func (r *SpinnerProgressReporter) Stop() {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completeCurrentStage()
	r.spinner.Stop()
}

// Stages returns the completed stages
func (r *SpinnerProgressReporter) Stages() []StageInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StageInfo(nil), r.stages...)
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	// Restart spinner if it was active
	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage prints the running stage as done
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if r.current == nil {
		return
	}
	if r.spinner.Active() {
		r.spinner.Stop()
	}

	stage := *r.current
	stage.EndTime = time.Now()
	r.stages = append(r.stages, stage)
	r.current = nil

	duration := stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s %s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		stage.Message,
		color.New(color.Faint).Sprintf("(%s)", duration))
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
