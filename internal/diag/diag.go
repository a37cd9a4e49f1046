// internal/diag/diag.go
package diag

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"cesu8-core/transcode"
)

// NewLogger builds the diagnostic logger for a run, writing to w (normally
// stderr). Colors are enabled only when w is a terminal.
func NewLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	f, isFile := w.(*os.File)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    !isFile || !isatty.IsTerminal(f.Fd()),
	})
	return log
}

// Reporter adapts transcoder diagnostics onto logrus, honoring the per-file
// verbosity and silence flags. It implements transcode.Reporter.
type Reporter struct {
	log     *logrus.Logger
	file    string
	verbose bool
	silent  bool
}

var _ transcode.Reporter = (*Reporter)(nil)

// NewReporter returns a Reporter for one input file.
func NewReporter(log *logrus.Logger, file string, verbose, silent bool) *Reporter {
	return &Reporter{log: log, file: file, verbose: verbose, silent: silent}
}

func (r *Reporter) LeadFound(off uint64) {
	if r.verbose {
		r.log.Infof("lead byte found at %#06x", off)
	}
}

func (r *Reporter) Converted(off uint64, cp rune) {
	if r.verbose {
		r.log.Infof("U+%04X (%c) at %#06x", cp, cp, off)
	}
}

func (r *Reporter) NotSurrogate(off uint64) {
	if r.verbose {
		r.log.Infof("not a surrogate at %#06x; left unchanged", off)
	}
}

func (r *Reporter) UnpairedSurrogate(off uint64, high bool, cp rune, fixed bool) {
	if r.silent {
		return
	}
	half := "low"
	if high {
		half = "high"
	}
	r.log.Warnf("%s: unpaired %s surrogate U+%04X at %#06x: %s", r.file, half, cp, off, action(fixed))
}

func (r *Reporter) InvalidSupplementary(off uint64, cp rune, fixed bool) {
	if r.silent {
		return
	}
	r.log.Warnf("%s: invalid 4-byte code U+%06X at %#06x: %s", r.file, cp, off, action(fixed))
}

func (r *Reporter) SpuriousLead(off uint64) {
	if r.silent {
		return
	}
	r.log.Warnf("%s: invalid UTF-8 sequence at %#06x: left unchanged", r.file, off)
}

func action(fixed bool) string {
	if fixed {
		return "converted to '?'"
	}
	return "left unchanged (see -f)"
}

// Summary logs the per-file byte accounting; verbose mode only.
func (r *Reporter) Summary(st transcode.Stats) {
	if !r.verbose {
		return
	}
	r.log.WithFields(logrus.Fields{
		"in":        humanize.IBytes(st.BytesIn),
		"out":       humanize.IBytes(st.BytesOut),
		"converted": st.Converted,
		"anomalies": st.Anomalies,
	}).Infof("%s: done", r.file)
}
