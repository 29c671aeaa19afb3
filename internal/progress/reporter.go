package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides feedback while a recording is in progress.
type Reporter interface {
	Start(maxSeconds int)
	Tick(seconds int)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive
// terminal, or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays an elapsed-seconds bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(maxSeconds int) {
	r.bar = progressbar.NewOptions(maxSeconds,
		progressbar.OptionSetDescription("Recording"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Tick(seconds int) {
	if r.bar != nil {
		_ = r.bar.Set(seconds)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	max int
}

func (r *CIReporter) Start(maxSeconds int) {
	r.max = maxSeconds
	fmt.Fprintf(os.Stderr, "Recording (up to %ds)\n", maxSeconds)
}

func (r *CIReporter) Tick(seconds int) {
	fmt.Fprintf(os.Stderr, "recording %ds/%ds\n", seconds, r.max)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(os.Stderr, "Recording finished")
}
