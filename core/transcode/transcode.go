// core/transcode/transcode.go
package transcode

import (
	"errors"
	"fmt"
	"io"

	"cesu8-core/cesu"
)

// Direction selects which of the two sequence shapes is rewritten.
type Direction int

const (
	// CESU8ToUTF8 rewrites 6-byte surrogate pairs as 4-byte UTF-8.
	// Output shrinks, so conversion happens in place in the working buffer.
	CESU8ToUTF8 Direction = iota
	// UTF8ToCESU8 rewrites 4-byte UTF-8 as 6-byte surrogate pairs.
	// Output grows, so converted bytes go to an auxiliary buffer sized 1.5x
	// the working buffer.
	UTF8ToCESU8
)

// DefaultBufSize is the working-buffer capacity used when Options.BufSize
// is zero.
const DefaultBufSize = 4096

// placeholder substitutes unpaired surrogates and invalid sequences in fix
// mode.
const placeholder = '?'

// Sentinel error kinds. Both wrap the underlying stream error; match with
// errors.Is.
var (
	ErrRead  = errors.New("read input")
	ErrWrite = errors.New("write output")
)

// Options configures a Transcoder. The set is immutable for the lifetime of
// a Run.
type Options struct {
	Direction Direction
	// Fix replaces unpaired surrogates and invalid 4-byte sequences with a
	// single '?' instead of passing them through.
	Fix bool
	// BufSize is the working-buffer capacity. Values below the maximum
	// sequence length are raised to it so a refill can always complete a
	// deferred sequence.
	BufSize int
	// Reporter receives diagnostics; nil discards them.
	Reporter Reporter
}

// Stats is the per-run byte accounting.
type Stats struct {
	BytesIn   uint64
	BytesOut  uint64
	Converted uint64 // sequences rewritten
	Anomalies uint64 // unpaired surrogates + invalid or spurious sequences
}

// Transcoder is a single-stream conversion session. It owns a working buffer
// with three cursors: loadEnd (bytes physically present), readPos (bytes
// classified and consumed) and writePos (bytes converted, pending emission).
// Invariant: readPos <= loadEnd always, and writePos <= readPos in the
// in-place direction. Buffers are allocated once and never resized.
//
// Not safe for concurrent use; the algorithm depends on strict left-to-right
// consumption.
type Transcoder struct {
	dir Direction
	fix bool
	rep Reporter

	buf []byte // working buffer
	aux []byte // output buffer for the growing direction, nil otherwise

	loadEnd  int
	readPos  int
	writePos int
	pos      uint64 // stream offset of buf[0], diagnostics only

	stats Stats
}

// New builds a Transcoder for the given options.
func New(opts Options) *Transcoder {
	size := opts.BufSize
	if size <= 0 {
		size = DefaultBufSize
	}
	if size < cesu.PairLen {
		size = cesu.PairLen
	}
	rep := opts.Reporter
	if rep == nil {
		rep = NopReporter{}
	}
	t := &Transcoder{
		dir: opts.Direction,
		fix: opts.Fix,
		rep: rep,
		buf: make([]byte, size),
	}
	if opts.Direction == UTF8ToCESU8 {
		t.aux = make([]byte, size+size/2)
	}
	return t
}

// Stats returns the accounting of the most recent Run.
func (t *Transcoder) Stats() Stats { return t.stats }

// Run converts r to w until the input is exhausted. Encoding anomalies are
// reported and recovered; only stream failures surface, wrapped in ErrRead
// or ErrWrite. The session state is reset first, so a Transcoder can run
// several streams in sequence.
func (t *Transcoder) Run(r io.Reader, w io.Writer) error {
	t.reset()
	for {
		more, err := t.refill(r, w)
		if err != nil || !more {
			return err
		}
		if t.dir == CESU8ToUTF8 {
			t.convertPairs()
		} else {
			t.convertQuads()
		}
	}
}

func (t *Transcoder) reset() {
	t.loadEnd, t.readPos, t.writePos = 0, 0, 0
	t.pos = 0
	t.stats = Stats{}
}

// refill emits converted output, compacts the unconsumed tail to the front
// of the working buffer and fills the remainder from r. It keeps reading
// until the buffer is full or the stream ends, so a sequence split across
// short upstream reads is reassembled before scanning resumes. The returned
// flag is false only when nothing was read and the buffer is empty.
func (t *Transcoder) refill(r io.Reader, w io.Writer) (bool, error) {
	t.pos += uint64(t.readPos)

	if err := t.emit(w); err != nil {
		return false, err
	}

	if t.loadEnd > t.readPos {
		copy(t.buf, t.buf[t.readPos:t.loadEnd]) // regions may overlap
	}
	t.loadEnd -= t.readPos
	t.readPos = 0

	for t.loadEnd < len(t.buf) {
		n, err := r.Read(t.buf[t.loadEnd:])
		t.loadEnd += n
		t.stats.BytesIn += uint64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrRead, err)
		}
	}
	return t.loadEnd > 0, nil
}

// emit flushes converted bytes to w and rewinds the write cursor.
func (t *Transcoder) emit(w io.Writer) error {
	if t.writePos == 0 {
		return nil
	}
	out := t.buf
	if t.aux != nil {
		out = t.aux
	}
	if _, err := w.Write(out[:t.writePos]); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	t.stats.BytesOut += uint64(t.writePos)
	t.writePos = 0
	return nil
}

// passThrough moves the raw bytes between readPos and end to the output side
// unchanged. In the in-place direction this is a left shift inside the
// working buffer (skipped entirely while the cursors still coincide).
func (t *Transcoder) passThrough(end int) {
	if end <= t.readPos {
		return
	}
	n := end - t.readPos
	if t.aux != nil {
		copy(t.aux[t.writePos:], t.buf[t.readPos:end])
	} else if t.writePos != t.readPos {
		copy(t.buf[t.writePos:], t.buf[t.readPos:end]) // regions may overlap
	}
	t.readPos = end
	t.writePos += n
}

// scanPairLead returns the index of the next surrogate lead byte at or after
// i, or loadEnd if there is none.
func (t *Transcoder) scanPairLead(i int) int {
	for ; i < t.loadEnd; i++ {
		if cesu.IsLead(t.buf[i]) {
			t.rep.LeadFound(t.pos + uint64(i))
			return i
		}
	}
	return t.loadEnd
}

// scanQuadLead returns the index of the next 4-byte UTF-8 lead at or after
// i, or loadEnd if there is none.
func (t *Transcoder) scanQuadLead(i int) int {
	for ; i < t.loadEnd; i++ {
		if cesu.IsQuadLead(t.buf[i]) {
			t.rep.LeadFound(t.pos + uint64(i))
			return i
		}
	}
	return t.loadEnd
}

// convertPairs drives scan-validate-convert over the loaded bytes in the
// CESU-8 to UTF-8 direction until the read cursor reaches loadEnd or a
// candidate sequence is cut off by the load boundary.
func (t *Transcoder) convertPairs() {
	if t.loadEnd < cesu.PairLen {
		// Tail fragment smaller than one sequence: all pass-through.
		t.passThrough(t.loadEnd)
		return
	}
	for t.readPos < t.loadEnd {
		i := t.scanPairLead(t.readPos)
		t.passThrough(i)
		if t.readPos == t.loadEnd {
			return
		}
		if t.readPos+cesu.PairLen > t.loadEnd {
			return // defer to the next refill
		}
		s := t.buf[t.readPos:]
		off := t.pos + uint64(t.readPos)
		if cesu.IsPair(s) {
			cp := cesu.PairToQuad(t.buf[t.writePos:], s)
			t.readPos += cesu.PairLen
			t.writePos += cesu.QuadLen
			t.stats.Converted++
			t.rep.Converted(off, cp)
			continue
		}
		high := cesu.IsHighTriplet(s)
		low := cesu.IsLowTriplet(s)
		if high || low {
			t.stats.Anomalies++
			t.rep.UnpairedSurrogate(off, high, cesu.TripletRune(s), t.fix)
			if t.fix {
				t.readPos += cesu.TripletLen
				t.buf[t.writePos] = placeholder
				t.writePos++
			} else {
				t.passThrough(t.readPos + cesu.TripletLen)
			}
			continue
		}
		// An ordinary 3-byte code in the D000-D7FF range, or a stray 0xED.
		t.rep.NotSurrogate(off)
		t.passThrough(t.readPos + 1)
	}
}

// convertQuads is the inverse loop, UTF-8 to CESU-8, writing into the
// auxiliary buffer.
func (t *Transcoder) convertQuads() {
	if t.loadEnd < cesu.QuadLen {
		t.passThrough(t.loadEnd)
		return
	}
	for t.readPos < t.loadEnd {
		i := t.scanQuadLead(t.readPos)
		t.passThrough(i)
		if t.readPos == t.loadEnd {
			return
		}
		if t.readPos+cesu.QuadLen > t.loadEnd {
			return // defer to the next refill
		}
		s := t.buf[t.readPos:]
		off := t.pos + uint64(t.readPos)
		if !cesu.IsQuad(s) {
			t.stats.Anomalies++
			t.rep.SpuriousLead(off)
			t.passThrough(t.readPos + 1)
			continue
		}
		cp, ok := cesu.QuadToPair(t.aux[t.writePos:], s)
		if !ok {
			t.stats.Anomalies++
			t.rep.InvalidSupplementary(off, cp, t.fix)
			if t.fix {
				t.aux[t.writePos] = placeholder
				t.readPos += cesu.QuadLen
				t.writePos++
			} else {
				// Consume the lead byte only; the continuation bytes are
				// rescanned as ordinary pass-through data.
				t.passThrough(t.readPos + 1)
			}
			continue
		}
		t.readPos += cesu.QuadLen
		t.writePos += cesu.PairLen
		t.stats.Converted++
		t.rep.Converted(off, cp)
	}
}
