// internal/cli/options.go
package cli

// Options is the conversion-mode snapshot attached to each step. An option
// affects the files that follow it on the command line, so the walker copies
// the current set into every step it emits.
type Options struct {
	Inverse  bool // UTF-8 -> CESU-8 instead of the default CESU-8 -> UTF-8
	Fix      bool // replace unpaired surrogates / invalid 4-byte codes with '?'
	Verbose  bool // report lead positions, converted code points and a summary
	Silent   bool // suppress encoding warnings
	SilentIO bool // additionally suppress I/O error messages
}

// StepKind discriminates the two things an argument can ask for.
type StepKind int

const (
	// Convert transcodes one input file to the current output.
	Convert StepKind = iota
	// Redirect close-flushes the current output and opens a new one.
	Redirect
)

// Step is one unit of work from the ordered argument walk.
type Step struct {
	Kind StepKind
	Arg  string // input path for Convert, destination path for Redirect
	Opts Options
}

// Plan is the parsed command line: an ordered list of steps plus the fast
// paths that short-circuit a run.
type Plan struct {
	Steps   []Step
	Files   int // number of Convert steps; zero means "show usage"
	Version bool
}

// Parse walks argv left to right. Flag libraries separate options from
// positionals, which would lose the per-file scoping this surface promises,
// so the walk is explicit. Anything unrecognized is an input file, and a
// trailing -o without a value is ignored, both as in the original tool.
func Parse(argv []string) Plan {
	var p Plan
	var o Options
	for i := 0; i < len(argv); i++ {
		switch arg := argv[i]; arg {
		case "-i", "--u2c":
			o.Inverse = true
		case "--c2u":
			o.Inverse = false
		case "-f", "--fix":
			o.Fix = true
		case "-v":
			o.Verbose = true
		case "-s":
			o.Silent = true
		case "-S":
			o.Silent = true
			o.SilentIO = true
		case "--version":
			p.Version = true
		case "-o":
			if i+1 < len(argv) {
				i++
				p.Steps = append(p.Steps, Step{Kind: Redirect, Arg: argv[i], Opts: o})
			}
		default:
			p.Steps = append(p.Steps, Step{Kind: Convert, Arg: arg, Opts: o})
			p.Files++
		}
	}
	return p
}
