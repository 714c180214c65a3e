package pathcodec

import (
	"bytes"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		path Path
	}{
		{"empty", Path{}},
		{"single number", Path{Number(0)}},
		{"single string", Path{String("hello")}},
		{"mixed", Path{String("a"), Number(3), String("b")}},
		{"max number", Path{Number(1<<32 - 1)}},
		{"empty string segment", Path{String("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.path)
			if err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}
			got, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if len(got) != len(tt.path) {
				t.Fatalf("Decode() = %v, want %v", got, tt.path)
			}
			for i := range got {
				if got[i].IsString() != tt.path[i].IsString() {
					t.Fatalf("segment %d kind mismatch", i)
				}
				if got[i].IsString() {
					if got[i].Str() != tt.path[i].Str() {
						t.Errorf("segment %d = %q, want %q", i, got[i].Str(), tt.path[i].Str())
					}
				} else if got[i].Num() != tt.path[i].Num() {
					t.Errorf("segment %d = %d, want %d", i, got[i].Num(), tt.path[i].Num())
				}
			}
		})
	}
}

func TestEncode_RejectsHighCodeUnit(t *testing.T) {
	_, err := Encode(Path{String("a￿b")})
	if err == nil {
		t.Fatal("Encode() did not reject code unit 0xFFFF")
	}
}

func TestEncode_NumbersSortBeforeStrings(t *testing.T) {
	num, err := Encode(Path{Number(0xFFFFFFFF)})
	if err != nil {
		t.Fatalf("Encode(number) failed: %v", err)
	}
	str, err := Encode(Path{String("")})
	if err != nil {
		t.Fatalf("Encode(string) failed: %v", err)
	}
	if bytes.Compare(num, str) >= 0 {
		t.Errorf("largest number segment %x did not sort before smallest string segment %x", num, str)
	}
}

func TestEncode_PrefixOrdering(t *testing.T) {
	// "a" must sort before "ab" so that the range scan for the record
	// at "a" doesn't bleed into rows under "ab".
	a, err := Encode(Path{String("a")})
	if err != nil {
		t.Fatalf("Encode(a) failed: %v", err)
	}
	ab, err := Encode(Path{String("ab")})
	if err != nil {
		t.Fatalf("Encode(ab) failed: %v", err)
	}
	if bytes.Compare(a, ab) >= 0 {
		t.Errorf("encode(a)=%x did not sort before encode(ab)=%x", a, ab)
	}
}

func TestDecode_UnknownTag(t *testing.T) {
	_, err := Decode([]byte{0x02})
	if err == nil {
		t.Fatal("Decode() did not reject unknown tag")
	}
}

func TestDecode_Empty(t *testing.T) {
	p, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil) failed: %v", err)
	}
	if len(p) != 0 {
		t.Errorf("Decode(nil) = %v, want empty path", p)
	}
}
