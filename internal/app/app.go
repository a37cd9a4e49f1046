// internal/app/app.go
package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"cesu8-core/transcode"
	"cesu8/internal/cli"
	"cesu8/internal/diag"
	"cesu8/internal/streams"
	"cesu8/internal/version"
)

// Exit codes, matching the original tool's taxonomy.
const (
	ExitOK          = 0
	ExitInputOpen   = 1
	ExitWrite       = 2
	ExitRead        = 3
	ExitOutputOpen  = 4
	ExitOutputClose = 5
)

// Run executes the ordered argument plan and returns the process exit code.
// stdout receives converted bytes, stderr the diagnostics.
func Run(argv []string, stdout, stderr io.Writer) int {
	plan := cli.Parse(argv)

	if plan.Version {
		_, _ = fmt.Fprintf(stdout, "cesu8 version %s\n", version.Version)
		return ExitOK
	}
	if plan.Files == 0 {
		cli.Usage(stderr)
		return ExitOK
	}

	log := diag.NewLogger(stderr)
	out := streams.NewOutput(stdout)

	for _, step := range plan.Steps {
		switch step.Kind {
		case cli.Redirect:
			if err := out.Redirect(step.Arg); err != nil {
				return outputFail(log, step.Opts.SilentIO, err)
			}
		case cli.Convert:
			code, stop := convertFile(log, out, step.Arg, step.Opts)
			if stop {
				return code
			}
		}
	}

	// Flush and close the last redirected output, if any.
	if err := out.Close(); err != nil {
		last := plan.Steps[len(plan.Steps)-1]
		return outputFail(log, last.Opts.SilentIO, err)
	}
	return ExitOK
}

// convertFile transcodes one input file to the current output. stop asks the
// caller to end the run with code; a broken output pipe stops with success.
func convertFile(log *logrus.Logger, out *streams.Output, path string, o cli.Options) (code int, stop bool) {
	in, err := streams.OpenInput(path)
	if err != nil {
		if !o.SilentIO {
			log.Errorf("cannot open %s: %v", path, err)
		}
		return ExitInputOpen, true
	}
	defer func() { _ = in.Close() }()

	dir := transcode.CESU8ToUTF8
	if o.Inverse {
		dir = transcode.UTF8ToCESU8
	}
	rep := diag.NewReporter(log, path, o.Verbose, o.Silent)
	tr := transcode.New(transcode.Options{
		Direction: dir,
		Fix:       o.Fix,
		Reporter:  rep,
	})

	if err := tr.Run(in, out.Writer()); err != nil {
		switch {
		case errors.Is(err, transcode.ErrWrite):
			if streams.IsBrokenPipe(err) {
				return ExitOK, true
			}
			if !o.SilentIO {
				log.Errorf("cannot write %s while processing %s: %v", out.Path(), path, err)
			}
			return ExitWrite, true
		default:
			if !o.SilentIO {
				log.Errorf("cannot read %s: %v", path, err)
			}
			return ExitRead, true
		}
	}

	rep.Summary(tr.Stats())
	return ExitOK, false
}

// outputFail maps output-stream errors to their exit codes: a failed
// close-flush is distinct from a failed open.
func outputFail(log *logrus.Logger, silentIO bool, err error) int {
	if !silentIO {
		log.Error(err)
	}
	var ce *streams.CloseError
	if errors.As(err, &ce) {
		return ExitOutputClose
	}
	return ExitOutputOpen
}
