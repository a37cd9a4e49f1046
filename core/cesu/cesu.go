// core/cesu/cesu.go
package cesu

// CESU-8 represents a supplementary code point as two independently encoded
// UTF-16 surrogate halves:
//
//	u: 1110 1101  ed      high surrogate d800-dbff = 1101 10vv vvww wwww
//	v: 1010 vvvv  a0-af
//	w: 10ww wwww  80-bf
//	x: 1110 1101  ed      low surrogate  dc00-dfff = 1101 11yy yyzz zzzz
//	y: 1011 yyyy  b0-bf
//	z: 10zz zzzz  80-bf
//
// Standard UTF-8 encodes the same 21-bit value (VVVVV = vvvv+1, re-adding
// the 0x10000 bias removed by UTF-16 surrogate encoding) as four bytes:
//
//	p: 1111 0VVV   q: 10VV wwww   r: 10ww yyyy   s: 10zz zzzz
//
// The s byte equals the z byte, so one byte of every sequence is copied
// through unchanged in both directions.
const (
	// Lead is the shared first byte of both surrogate halves.
	Lead = 0xED

	highTag = 0xA0 // 1010 vvvv
	lowTag  = 0xB0 // 1011 yyyy
	tagMask = 0xF0

	contTag  = 0x80 // 10xx xxxx
	contMask = 0xC0

	quadLead     = 0xF0 // 1111 0vvv
	quadLeadMask = 0xF8
)

// Sequence lengths for the two convertible shapes.
const (
	PairLen    = 6 // CESU-8 surrogate pair
	TripletLen = 3 // one surrogate half
	QuadLen    = 4 // 4-byte UTF-8 sequence
)

// IsLead reports whether b can start a surrogate half.
func IsLead(b byte) bool { return b == Lead }

// IsQuadLead reports whether b matches the 4-byte UTF-8 lead pattern.
func IsQuadLead(b byte) bool { return b&quadLeadMask == quadLead }

// IsHighTriplet reports whether s[0:3] encodes a high surrogate. The caller
// has already matched s[0] == Lead, so only the tag bytes are checked.
func IsHighTriplet(s []byte) bool {
	return s[1]&tagMask == highTag && s[2]&contMask == contTag
}

// IsLowTriplet reports whether s[0:3] encodes a low surrogate. Unlike
// IsHighTriplet it re-checks s[0]: unpaired-surrogate classification needs
// the high and low predicates to be independently decidable at one offset.
func IsLowTriplet(s []byte) bool {
	return s[0] == Lead && s[1]&tagMask == lowTag && s[2]&contMask == contTag
}

// IsPair reports whether s[0:6] is a full high+low surrogate pair.
func IsPair(s []byte) bool { return IsHighTriplet(s) && IsLowTriplet(s[3:]) }

// IsQuad reports whether the three bytes following a matched 4-byte lead are
// all continuation bytes.
func IsQuad(s []byte) bool {
	return s[1]&contMask == contTag && s[2]&contMask == contTag && s[3]&contMask == contTag
}

// PairToQuad rewrites the validated 6-byte surrogate pair at s[0:6] into the
// 4-byte UTF-8 sequence at dst[0:4] and returns the code point. dst may
// overlap s as long as dst points at or before s (in-place left-shifting
// conversion); all input bytes are read before the first write.
func PairToQuad(dst, s []byte) rune {
	v := s[1] & 0x0F
	w := s[2] & 0x3F
	y := s[4] & 0x0F
	z := s[5]

	V := v + 1

	dst[0] = quadLead | V>>2
	dst[1] = contTag | (V&0x03)<<4 | w>>2
	dst[2] = contTag | (w&0x03)<<4 | y
	dst[3] = z

	return rune(V)<<16 | rune(w)<<10 | rune(y)<<6 | rune(z&0x3F)
}

// QuadToPair rewrites the validated 4-byte UTF-8 sequence at s[0:4] into the
// 6-byte surrogate pair at dst[0:6]. ok is false when the sequence is
// overlong (VVVVV underflows) or encodes a code point above U+10FFFF
// (VVVVV > 0x10); dst is left untouched then. The decoded code point is
// returned either way, for diagnostics.
func QuadToPair(dst, s []byte) (cp rune, ok bool) {
	VVV := s[0] & 0x07
	VVwwww := s[1] & 0x3F
	wwyyyy := s[2] & 0x3F
	z := s[3]

	V := VVV<<2 | VVwwww>>4
	w := (VVwwww&0x0F)<<2 | wwyyyy>>4
	y := wwyyyy & 0x0F

	cp = rune(V)<<16 | rune(w)<<10 | rune(y)<<6 | rune(z&0x3F)
	if V == 0 || V > 0x10 {
		return cp, false
	}

	dst[0] = Lead
	dst[1] = highTag | (V - 1)
	dst[2] = contTag | w
	dst[3] = Lead
	dst[4] = lowTag | y
	dst[5] = z
	return cp, true
}

// TripletRune returns the code point of the plain 3-byte UTF-8 sequence at
// s[0:3]. Used to report unpaired surrogates by their surrogate code.
func TripletRune(s []byte) rune {
	return rune(s[0]&0x0F)<<12 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F)
}
