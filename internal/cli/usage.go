// internal/cli/usage.go
package cli

import (
	"fmt"
	"io"

	"cesu8/internal/version"
)

const usageText = `Usage: cesu8 [<options>] file ...
  Converts CESU-8 file(s) to UTF-8. Does inverse conversion if -i specified.
  The file named '-' means stdin.
  Converted output is written to stdout (but see -o)
Options:
  -i  --u2c    Convert UTF-8 to CESU-8; i.e. inverse conversion
      --c2u    Convert CESU-8 to UTF-8; (this is the default)
  -f  --fix    Fix unpaired surrogates and invalid 4-byte codes:
               Convert them to '?'
  -v           Verbose mode: report converted codes
  -s           Silent mode: don't report encoding warnings
  -S           Silent mode: don't report file I/O errors and encoding warnings
  -o <file>    Write output to <file>, not stdout
      --version  Print version and exit
Note: An option affects processing of file(s) that follow it
Note: Conversion is done without checking the file's encoding!
If the file is already UTF-8 (or CESU-8 in case of -i), no codes are modified.
Unpaired surrogate fixing (-f) is possible at CESU-8 to UTF-8 conversion only.
(Running 'cesu8 -f' on a UTF-8 file fixes unpaired surrogates in that text,
 too, no other text modifications are done.)
Invalid 4-byte code fixing is possible at UTF-8 to CESU-8 conversion (-i) only.
Gzipped input files (by 1F 8B magic or .gz suffix) are decompressed on the fly.
`

// Usage writes the help text.
func Usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "cesu8 %s\n%s", version.Version, usageText)
}
