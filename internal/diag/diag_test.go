package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"cesu8-core/transcode"
)

func TestReporter_Warnings(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	log := NewLogger(&buf)
	rep := NewReporter(log, "in.txt", false, false)

	rep.UnpairedSurrogate(0x10, true, 0xD83D, false)
	out := buf.String()
	require.Contains(out, "unpaired high surrogate U+D83D")
	require.Contains(out, "in.txt")
	require.Contains(out, "left unchanged (see -f)")

	buf.Reset()
	rep.UnpairedSurrogate(0x10, false, 0xDE00, true)
	require.Contains(buf.String(), "unpaired low surrogate")
	require.Contains(buf.String(), "converted to '?'")

	buf.Reset()
	rep.InvalidSupplementary(0x20, 0x110000, false)
	require.Contains(buf.String(), "invalid 4-byte code U+110000")

	buf.Reset()
	rep.SpuriousLead(0x30)
	require.Contains(buf.String(), "invalid UTF-8 sequence")
}

func TestReporter_Silent(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(NewLogger(&buf), "in.txt", false, true)

	rep.UnpairedSurrogate(0, true, 0xD800, false)
	rep.InvalidSupplementary(0, 0x110000, false)
	rep.SpuriousLead(0)
	require.Empty(t, buf.String())
}

func TestReporter_Verbose(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	rep := NewReporter(NewLogger(&buf), "in.txt", true, false)

	rep.LeadFound(0x42)
	rep.Converted(0x42, 0x1F600)
	rep.NotSurrogate(0x50)
	rep.Summary(transcode.Stats{BytesIn: 1024, BytesOut: 900, Converted: 3, Anomalies: 1})

	out := buf.String()
	require.Contains(out, "lead byte found at 0x0042")
	require.Contains(out, "U+1F600")
	require.Contains(out, "not a surrogate")
	require.Contains(out, "1.0 KiB")
	require.Contains(out, "in.txt: done")
}

func TestReporter_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(NewLogger(&buf), "in.txt", false, false)

	// Verbose-only events stay quiet without -v.
	rep.LeadFound(0)
	rep.Converted(0, 0x1F600)
	rep.NotSurrogate(0)
	rep.Summary(transcode.Stats{})
	require.Empty(t, buf.String())
}
