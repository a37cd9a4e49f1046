package transcode

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func run(t *testing.T, opts Options, in []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := New(opts).Run(bytes.NewReader(in), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.Bytes()
}

var (
	grinPair = []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80} // U+1F600, CESU-8
	grinQuad = []byte{0xF0, 0x9F, 0x98, 0x80}             // U+1F600, UTF-8
)

func TestConvertPair(t *testing.T) {
	got := run(t, Options{Direction: CESU8ToUTF8}, grinPair)
	if !bytes.Equal(got, grinQuad) {
		t.Fatalf("got % X want % X", got, grinQuad)
	}
}

func TestConvertQuad(t *testing.T) {
	got := run(t, Options{Direction: UTF8ToCESU8}, grinQuad)
	if !bytes.Equal(got, grinPair) {
		t.Fatalf("got % X want % X", got, grinPair)
	}
}

func TestRoundTripMixedText(t *testing.T) {
	var cesu, utf bytes.Buffer
	for i := 0; i < 200; i++ {
		cesu.WriteString("plain ascii ")
		cesu.Write(grinPair)
		cesu.WriteString("köttbullar☃") // 2- and 3-byte codes stay as-is
		utf.WriteString("plain ascii ")
		utf.Write(grinQuad)
		utf.WriteString("köttbullar☃")
	}

	got := run(t, Options{Direction: CESU8ToUTF8}, cesu.Bytes())
	if !bytes.Equal(got, utf.Bytes()) {
		t.Fatalf("cesu->utf mismatch")
	}
	got = run(t, Options{Direction: UTF8ToCESU8}, utf.Bytes())
	if !bytes.Equal(got, cesu.Bytes()) {
		t.Fatalf("utf->cesu mismatch")
	}
}

func TestPassThrough(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x41},
		[]byte("hello, world"),
		{0xED, 0x9F, 0xBF}, // U+D7FF: 0xED lead, not a surrogate
		append([]byte{0xED, 0x9F, 0xBF}, "hello!"...), // same, with enough tail to classify
		{0xED},                   // lone lead at end of stream
		{0xF0, 0x9F, 0x98},       // truncated quad at end of stream
		{0xFF, 0xFE, 0x00, 0x80}, // already-invalid bytes stay untouched
	}
	for _, dir := range []Direction{CESU8ToUTF8, UTF8ToCESU8} {
		for _, in := range cases {
			got := run(t, Options{Direction: dir}, in)
			if !bytes.Equal(got, in) {
				t.Fatalf("dir=%d input % X changed to % X", dir, in, got)
			}
		}
	}
}

func TestIdempotentOnUTF8(t *testing.T) {
	in := append([]byte("no cesu here: "), grinQuad...)
	got := run(t, Options{Direction: CESU8ToUTF8, Fix: true}, in)
	if !bytes.Equal(got, in) {
		t.Fatalf("utf-8 input modified: % X", got)
	}
}

func TestUnpairedSurrogate(t *testing.T) {
	in := append([]byte{0xED, 0xA0, 0x80}, "abc"...)

	got := run(t, Options{Direction: CESU8ToUTF8, Fix: true}, in)
	if want := []byte("?abc"); !bytes.Equal(got, want) {
		t.Fatalf("fix on: got %q want %q", got, want)
	}

	got = run(t, Options{Direction: CESU8ToUTF8}, in)
	if !bytes.Equal(got, in) {
		t.Fatalf("fix off: got % X want input unchanged", got)
	}
}

func TestUnpairedLowSurrogate(t *testing.T) {
	in := append([]byte{0xED, 0xB8, 0x80}, "xyz"...)
	rec := &recorder{}
	got := run(t, Options{Direction: CESU8ToUTF8, Reporter: rec}, in)
	if !bytes.Equal(got, in) {
		t.Fatalf("got % X want input unchanged", got)
	}
	if len(rec.unpaired) != 1 || rec.unpaired[0].high || rec.unpaired[0].cp != 0xDE00 {
		t.Fatalf("unpaired events: %+v", rec.unpaired)
	}
}

func TestBackToBackSurrogateHalves(t *testing.T) {
	// Low followed by high: two unpaired halves, not a pair.
	in := append([]byte{0xED, 0xB8, 0x80, 0xED, 0xA0, 0xBD}, "xxx"...)
	got := run(t, Options{Direction: CESU8ToUTF8, Fix: true}, in)
	if want := []byte("??xxx"); !bytes.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTrailingTripletPassesThrough(t *testing.T) {
	// An unpaired triplet hard against end of stream is a tail fragment
	// shorter than one full sequence; it passes through even in fix mode.
	in := []byte{0x61, 0xED, 0xA0, 0x80}
	got := run(t, Options{Direction: CESU8ToUTF8, Fix: true}, in)
	if !bytes.Equal(got, in) {
		t.Fatalf("got % X want input unchanged", got)
	}
}

func TestInvalidQuad(t *testing.T) {
	overlong := []byte{0xF0, 0x8F, 0xBF, 0xBF}
	in := append(append([]byte("a"), overlong...), 'b')

	got := run(t, Options{Direction: UTF8ToCESU8, Fix: true}, in)
	if want := []byte("a?b"); !bytes.Equal(got, want) {
		t.Fatalf("fix on: got %q want %q", got, want)
	}

	// Fix off: the lead byte alone is consumed, the rest rescanned.
	got = run(t, Options{Direction: UTF8ToCESU8}, in)
	if !bytes.Equal(got, in) {
		t.Fatalf("fix off: got % X want input unchanged", got)
	}

	tooBig := []byte{0xF4, 0x90, 0x80, 0x80}
	got = run(t, Options{Direction: UTF8ToCESU8, Fix: true}, tooBig)
	if want := []byte("?"); !bytes.Equal(got, want) {
		t.Fatalf("above U+10FFFF: got %q want %q", got, want)
	}
}

func TestSpuriousQuadLead(t *testing.T) {
	in := []byte{0xF0, 'A', 'B', 'C'}
	rec := &recorder{}
	got := run(t, Options{Direction: UTF8ToCESU8, Reporter: rec}, in)
	if !bytes.Equal(got, in) {
		t.Fatalf("got % X want input unchanged", got)
	}
	if rec.spurious != 1 {
		t.Fatalf("spurious events: %d", rec.spurious)
	}
}

func TestStats(t *testing.T) {
	in := append(append([]byte("ab"), grinPair...), 0xED, 0xA0, 0x80, 't', 'l', 'x')
	tr := New(Options{Direction: CESU8ToUTF8, Fix: true})
	var out bytes.Buffer
	if err := tr.Run(bytes.NewReader(in), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	st := tr.Stats()
	if st.BytesIn != uint64(len(in)) || st.BytesOut != uint64(out.Len()) {
		t.Fatalf("byte accounting: %+v out=%d", st, out.Len())
	}
	if st.Converted != 1 || st.Anomalies != 1 {
		t.Fatalf("event accounting: %+v", st)
	}
}

func TestSessionReuse(t *testing.T) {
	tr := New(Options{Direction: CESU8ToUTF8})
	for i := 0; i < 3; i++ {
		var out bytes.Buffer
		if err := tr.Run(bytes.NewReader(grinPair), &out); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !bytes.Equal(out.Bytes(), grinQuad) {
			t.Fatalf("run %d: got % X", i, out.Bytes())
		}
		if st := tr.Stats(); st.BytesIn != uint64(len(grinPair)) {
			t.Fatalf("run %d: stats not reset: %+v", i, st)
		}
	}
}

func TestReadError(t *testing.T) {
	boom := errors.New("boom")
	err := New(Options{Direction: CESU8ToUTF8}).Run(&failingReader{err: boom}, io.Discard)
	if !errors.Is(err, ErrRead) || !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
}

func TestWriteError(t *testing.T) {
	boom := errors.New("boom")
	err := New(Options{Direction: CESU8ToUTF8}).Run(bytes.NewReader([]byte("data")), &failingWriter{err: boom})
	if !errors.Is(err, ErrWrite) || !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
}

type failingReader struct{ err error }

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }

type failingWriter struct{ err error }

func (f *failingWriter) Write(p []byte) (int, error) { return 0, f.err }

type unpairedEvent struct {
	high bool
	cp   rune
}

// recorder captures reporter callbacks for assertions.
type recorder struct {
	NopReporter
	unpaired []unpairedEvent
	spurious int
}

func (r *recorder) UnpairedSurrogate(_ uint64, high bool, cp rune, _ bool) {
	r.unpaired = append(r.unpaired, unpairedEvent{high: high, cp: cp})
}

func (r *recorder) SpuriousLead(uint64) { r.spurious++ }
