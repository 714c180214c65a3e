// Package rangekey computes the half-open byte ranges (spec §4.C,
// component C) used for every subtree scan and subtree delete: the
// contiguous interval [lower, upper) that holds exactly the rows whose
// path extends a given prefix.
package rangekey

// Range returns the half-open byte range [lower, upper) containing
// every row whose encoded path starts with a non-empty prefix. For an
// empty prefix the range is [nil, 0x01), which holds only paths whose
// first segment is a number.
func Range(prefix []byte) (lower, upper []byte) {
	return prefix, increment(prefix)
}

// increment returns the shortest byte string greater than every byte
// string that starts with buf: trailing 0xFF bytes are dropped and the
// last remaining byte is incremented (01 FF becomes 02). A string
// segment's encoding ends in 0xFE, but a number segment's ends in the
// low byte of its index, which can be 0xFF (index 255), so the carry
// does occur for real path prefixes.
func increment(buf []byte) []byte {
	if len(buf) == 0 {
		return []byte{0x01}
	}

	out := make([]byte, len(buf))
	copy(out, buf)

	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out[:i+1]
		}
		out[i] = 0x00
	}

	// buf was all 0xFF bytes: no byte string is greater than every
	// extension of buf, and the result is a zero buffer one byte
	// longer, which sorts before buf. This never happens for a
	// path-encoded prefix, whose first byte is a 0x00 or 0x01 tag.
	return append(out, 0x00)
}
