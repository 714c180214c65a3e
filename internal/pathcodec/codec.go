// Package pathcodec implements the order-preserving binary encoding of
// hierodb paths (spec §4.A, component A). Paths are serialized by
// concatenating per-segment encodings with no length prefix: a number
// segment is tag 0x00 plus a big-endian uint32; a string segment is
// tag 0x01, each UTF-16 code unit big-endian, terminated by 0xFFFE.
//
// Tag 0x00 sorting before 0x01 puts every number segment before every
// string segment at a given path position; big-endian uint32 sorts
// numbers numerically; the 0xFFFE terminator is strictly greater than
// any legal code unit, so "a" sorts before "ab" without the encoded
// range for the record at "a" bleeding into the range for "ab".
package pathcodec

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/pathkv/hierodb/internal/herr"
)

const (
	tagNumber = 0x00
	tagString = 0x01

	// terminator must be strictly greater than any legal code unit so
	// that encoded strings compare as a lexicographic string order.
	terminator = 0xFFFE

	// maxCodeUnit is the highest code unit accepted in a string
	// segment; a code unit >= this value is rejected with
	// InvalidCodeUnit (spec §4.A).
	maxCodeUnit = 0xFFFE
)

// Encode serializes p into its order-preserving byte form.
func Encode(p Path) ([]byte, error) {
	var buf []byte
	for _, seg := range p {
		var err error
		buf, err = appendSegment(buf, seg)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func appendSegment(buf []byte, seg Segment) ([]byte, error) {
	if !seg.isString {
		buf = append(buf, tagNumber)
		return binary.BigEndian.AppendUint32(buf, seg.num), nil
	}

	buf = append(buf, tagString)
	units := utf16.Encode([]rune(seg.str))
	for _, u := range units {
		if u >= maxCodeUnit {
			return nil, herr.New(herr.KindInvalidCodeUnit, "code unit %#x in %q is not allowed", u, seg.str)
		}
		buf = binary.BigEndian.AppendUint16(buf, u)
	}
	return binary.BigEndian.AppendUint16(buf, terminator), nil
}

// Decode parses raw into the Path it encodes. A tag byte that is
// neither 0x00 nor 0x01 is an UnknownTag error, per spec §4.A.
func Decode(raw []byte) (Path, error) {
	var p Path
	for len(raw) > 0 {
		tag := raw[0]
		raw = raw[1:]

		switch tag {
		case tagNumber:
			if len(raw) < 4 {
				return nil, herr.New(herr.KindUnknownTag, "truncated number segment")
			}
			p = append(p, Number(binary.BigEndian.Uint32(raw)))
			raw = raw[4:]

		case tagString:
			var units []uint16
			for {
				if len(raw) < 2 {
					return nil, herr.New(herr.KindUnknownTag, "unterminated string segment")
				}
				u := binary.BigEndian.Uint16(raw)
				raw = raw[2:]
				if u == terminator {
					break
				}
				units = append(units, u)
			}
			p = append(p, String(string(utf16.Decode(units))))

		default:
			return nil, herr.New(herr.KindUnknownTag, "unknown path segment tag %#x", tag)
		}
	}
	return p, nil
}
