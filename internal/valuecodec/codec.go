package valuecodec

import (
	"encoding/binary"
	"math"
	"math/big"
	"time"
	"unicode/utf16"

	"github.com/pathkv/hierodb/internal/herr"
)

// Tag bytes per spec §4.B. Scalar tags occupy the low range; the
// composite markers (0xFE/0xFF) live at the top of the byte space so
// they can never collide with a future scalar tag.
const (
	tagNull      = 0
	tagTrue      = 1
	tagFalse     = 2
	tagNumber    = 3
	tagString    = 4
	tagBigInt    = 5
	tagTimestamp = 6
	tagRegexp    = 7

	// TagArrayMarker and TagRecordMarker are the single-byte rows
	// written at a composite's own path (spec §3 "Composite marker").
	TagArrayMarker  byte = 0xFE
	TagRecordMarker byte = 0xFF
)

// EncodeScalar serializes a scalar Value to its tagged row bytes.
// Composite values (*Array, *Record) are not scalars; callers write
// TagArrayMarker/TagRecordMarker directly instead.
func EncodeScalar(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte{tagNull}, nil
	case Bool:
		if val {
			return []byte{tagTrue}, nil
		}
		return []byte{tagFalse}, nil
	case Number:
		buf := make([]byte, 9)
		buf[0] = tagNumber
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(float64(val)))
		return buf, nil
	case String:
		return encodeUTF16(tagString, string(val)), nil
	case BigInt:
		if val.Int == nil {
			return nil, herr.New(herr.KindUnsupportedType, "bigint value has no digits")
		}
		return encodeUTF16(tagBigInt, val.Int.String()), nil
	case Timestamp:
		buf := make([]byte, 9)
		buf[0] = tagTimestamp
		ms := float64(time.Time(val).UnixMilli())
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(ms))
		return buf, nil
	case Regexp:
		return encodeUTF16(tagRegexp, string(val)), nil
	default:
		return nil, herr.New(herr.KindUnsupportedType, "value of type %T is not a supported scalar", v)
	}
}

// encodeUTF16 writes s as big-endian UTF-16 code units after tag, with
// no normalization: the wire form is the input's code units verbatim,
// so a round trip through EncodeScalar/DecodeScalar is bit-exact for
// any valid input (spec §4.B, testable property 1).
func encodeUTF16(tag byte, s string) []byte {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, 1+2*len(units))
	buf[0] = tag
	for i, u := range units {
		binary.BigEndian.PutUint16(buf[1+2*i:], u)
	}
	return buf
}

func decodeUTF16(body []byte) (string, error) {
	if len(body)%2 != 0 {
		return "", herr.New(herr.KindUnknownTag, "malformed UTF-16 value body (odd length)")
	}
	units := make([]uint16, len(body)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(body[2*i:])
	}
	return string(utf16.Decode(units)), nil
}

// DecodeScalar parses a row's value bytes into a scalar Value. raw
// must not be a composite marker; callers check for TagArrayMarker/
// TagRecordMarker before calling DecodeScalar.
func DecodeScalar(raw []byte) (Value, error) {
	if len(raw) == 0 {
		return nil, herr.New(herr.KindUnknownTag, "empty value row")
	}
	tag, body := raw[0], raw[1:]

	switch tag {
	case tagNull:
		return Null{}, nil
	case tagTrue:
		return Bool(true), nil
	case tagFalse:
		return Bool(false), nil
	case tagNumber:
		if len(body) != 8 {
			return nil, herr.New(herr.KindUnknownTag, "malformed number value")
		}
		return Number(math.Float64frombits(binary.BigEndian.Uint64(body))), nil
	case tagString:
		s, err := decodeUTF16(body)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case tagBigInt:
		s, err := decodeUTF16(body)
		if err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, herr.New(herr.KindUnknownTag, "malformed bigint value %q", s)
		}
		return BigInt{n}, nil
	case tagTimestamp:
		if len(body) != 8 {
			return nil, herr.New(herr.KindUnknownTag, "malformed timestamp value")
		}
		ms := math.Float64frombits(binary.BigEndian.Uint64(body))
		return Timestamp(time.UnixMilli(int64(ms)).UTC()), nil
	case tagRegexp:
		s, err := decodeUTF16(body)
		if err != nil {
			return nil, err
		}
		return Regexp(s), nil
	default:
		return nil, herr.New(herr.KindUnknownTag, "unknown value tag %#x", tag)
	}
}
