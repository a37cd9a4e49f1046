// core/transcode/reporter.go
package transcode

// Reporter receives diagnostic callbacks from a Transcoder. Offsets are
// absolute byte positions in the logical input stream. Implementations own
// formatting and silencing; the transcoder itself never writes diagnostics.
type Reporter interface {
	// LeadFound fires for every candidate lead byte, before validation.
	LeadFound(off uint64)
	// Converted fires after a sequence is rewritten into the target encoding.
	Converted(off uint64, cp rune)
	// NotSurrogate fires when a 0xED lead turns out to start an ordinary
	// 3-byte sequence (code point in D000-D7FF) or sits in unrelated data.
	NotSurrogate(off uint64)
	// UnpairedSurrogate fires for a lone high or low surrogate triplet.
	// fixed tells whether the triplet was replaced with the placeholder.
	UnpairedSurrogate(off uint64, high bool, cp rune, fixed bool)
	// InvalidSupplementary fires for a 4-byte sequence that is overlong or
	// decodes above U+10FFFF and so has no CESU-8 representation.
	InvalidSupplementary(off uint64, cp rune, fixed bool)
	// SpuriousLead fires when a 4-byte lead is not followed by three
	// continuation bytes; the lead passes through unchanged.
	SpuriousLead(off uint64)
}

// NopReporter discards all diagnostics.
type NopReporter struct{}

func (NopReporter) LeadFound(uint64)                           {}
func (NopReporter) Converted(uint64, rune)                     {}
func (NopReporter) NotSurrogate(uint64)                        {}
func (NopReporter) UnpairedSurrogate(uint64, bool, rune, bool) {}
func (NopReporter) InvalidSupplementary(uint64, rune, bool)    {}
func (NopReporter) SpuriousLead(uint64)                        {}
