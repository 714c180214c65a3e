package pathcodec

import "strconv"

// Segment is one step of a Path: either a non-negative 32-bit array
// index or a record key string. Number segments always sort before
// string segments (spec §4.A "Ordering rationale"), matching how a
// handle serves array indices before named properties.
type Segment struct {
	isString bool
	num      uint32
	str      string
}

// Number builds a number (array-index) segment.
func Number(n uint32) Segment { return Segment{num: n} }

// String builds a string (record-key) segment.
func String(s string) Segment { return Segment{isString: true, str: s} }

// IsString reports whether seg is a string segment.
func (seg Segment) IsString() bool { return seg.isString }

// Num returns the numeric value of a number segment. Panics if seg is
// a string segment; callers must check IsString first.
func (seg Segment) Num() uint32 {
	if seg.isString {
		panic("pathcodec: Num called on a string segment")
	}
	return seg.num
}

// Str returns the string value of a string segment. Panics if seg is a
// number segment; callers must check IsString first.
func (seg Segment) Str() string {
	if !seg.isString {
		panic("pathcodec: Str called on a number segment")
	}
	return seg.str
}

func (seg Segment) String() string {
	if seg.isString {
		return seg.str
	}
	return strconv.FormatUint(uint64(seg.num), 10)
}

// Path is an ordered sequence of segments from a table root to a
// stored cell. The empty path denotes the table root.
type Path []Segment

// Append returns a new Path extending p with seg, leaving p untouched.
func (p Path) Append(seg Segment) Path {
	q := make(Path, len(p)+1)
	copy(q, p)
	q[len(p)] = seg
	return q
}
