// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package varsig

import (
	"bytes"
	"errors"
	"testing"

	"github.com/multiformats/go-varint"
)

// mustNew builds an envelope or fails the test. Keeps the tables below
// free of error plumbing for inputs that are valid by construction.
func mustNew(t *testing.T, version Version, keyCodec, encodingCodec uint64, attributes []uint64, signature []byte) *Envelope {
	t.Helper()
	envelope, err := New(version, keyCodec, encodingCodec, attributes, signature)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return envelope
}

func TestEncodeConcreteV1(t *testing.T) {
	// key codec 0x01, no attributes, encoding codec 0x02, two
	// signature bytes. All values are below 128, so every varint is a
	// single byte.
	envelope := mustNew(t, V1, 0x01, 0x02, nil, []byte{0xAA, 0xBB})
	want := []byte{0x34, 0x01, 0x00, 0x02, 0x02, 0xAA, 0xBB}
	if got := envelope.Encode(); !bytes.Equal(got, want) {
		t.Errorf("Encode = %x, want %x", got, want)
	}
}

func TestEncodeConcreteV2(t *testing.T) {
	// Same fields as the v1 scenario: the encoding codec moves ahead
	// of the attribute block.
	envelope := mustNew(t, V2, 0x01, 0x02, nil, []byte{0xAA, 0xBB})
	want := []byte{0x39, 0x01, 0x02, 0x00, 0x02, 0xAA, 0xBB}
	if got := envelope.Encode(); !bytes.Equal(got, want) {
		t.Errorf("Encode = %x, want %x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		version       Version
		keyCodec      uint64
		encodingCodec uint64
		attributes    []uint64
		signature     []byte
	}{
		{"v1 minimal", V1, 0x01, 0x02, nil, []byte{0xAA, 0xBB}},
		{"v2 minimal", V2, 0x01, 0x02, nil, []byte{0xAA, 0xBB}},
		{"v1 empty signature", V1, 0xED, 0x55, nil, nil},
		{"v2 empty signature", V2, 0xED, 0x55, nil, nil},
		{"v1 attributes", V1, 0xE7, 0x55, []uint64{0x1B, 0x01}, bytes.Repeat([]byte{0x5A}, 65)},
		{"v2 attributes", V2, 0xE7, 0x55, []uint64{0x1B, 0x01}, bytes.Repeat([]byte{0x5A}, 65)},
		{"v2 multi-byte varints", V2, 0x1205, 0x0129, []uint64{0x12, 0xB220, 1 << 40}, bytes.Repeat([]byte{0xC3}, 256)},
		{"v1 max codec values", V1, 1<<63 - 1, 1<<63 - 1, []uint64{1<<63 - 1}, []byte{0x00}},
		{"v2 ed25519 shaped", V2, 0xED, 0x55, nil, bytes.Repeat([]byte{0x11}, 64)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			envelope := mustNew(t, test.version, test.keyCodec, test.encodingCodec, test.attributes, test.signature)
			wire := envelope.Encode()

			decoded, consumed, err := Decode(wire)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if consumed != len(wire) {
				t.Errorf("consumed = %d, want %d", consumed, len(wire))
			}
			if !decoded.Equal(envelope) {
				t.Errorf("round trip mismatch: got %s, want %s", decoded, envelope)
			}
		})
	}
}

func TestVersionDispatch(t *testing.T) {
	v1 := mustNew(t, V1, 0xED, 0x55, nil, []byte{0x01})
	v2 := mustNew(t, V2, 0xED, 0x55, nil, []byte{0x01})

	if sigil := v1.Encode()[0]; sigil != SigilV1 {
		t.Errorf("v1 encoding starts with 0x%02x, want 0x%02x", sigil, SigilV1)
	}
	if sigil := v2.Encode()[0]; sigil != SigilV2 {
		t.Errorf("v2 encoding starts with 0x%02x, want 0x%02x", sigil, SigilV2)
	}
}

func TestLayoutDiffersBetweenVersions(t *testing.T) {
	// Same logical fields, different byte order: v1 places the
	// attribute block before the encoding codec, v2 after. With a
	// non-empty attribute list the two encodings must differ beyond
	// the sigil, and each must round-trip only under its own grammar.
	attributes := []uint64{0x1B}
	signature := []byte{0xAA, 0xBB, 0xCC}
	v1 := mustNew(t, V1, 0xE7, 0x55, attributes, signature)
	v2 := mustNew(t, V2, 0xE7, 0x55, attributes, signature)

	v1Wire := v1.Encode()
	v2Wire := v2.Encode()

	wantV1 := []byte{0x34, 0xE7, 0x01, 0x01, 0x1B, 0x55, 0x03, 0xAA, 0xBB, 0xCC}
	wantV2 := []byte{0x39, 0xE7, 0x01, 0x55, 0x01, 0x1B, 0x03, 0xAA, 0xBB, 0xCC}
	if !bytes.Equal(v1Wire, wantV1) {
		t.Errorf("v1 wire = %x, want %x", v1Wire, wantV1)
	}
	if !bytes.Equal(v2Wire, wantV2) {
		t.Errorf("v2 wire = %x, want %x", v2Wire, wantV2)
	}

	// Feeding v2 bytes with a v1 sigil through the v1 grammar must
	// not silently reproduce the v2 envelope: the grammars only stay
	// safe because the sigil is checked first.
	crossed := bytes.Clone(v2Wire)
	crossed[0] = SigilV1
	decoded, _, err := Decode(crossed)
	if err == nil && decoded.Equal(v2) {
		t.Error("v2 layout parsed under v1 grammar reproduced the v2 envelope")
	}
}

func TestDecodeUnrecognizedSigil(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"sigil 0x35", []byte{0x35, 0x01, 0x00, 0x02, 0x02, 0xAA, 0xBB}},
		{"sigil zero", []byte{0x00}},
		{"sigil 0xff", []byte{0xFF, 0xFF, 0xFF}},
		{"empty input", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := Decode(test.data)
			if !errors.Is(err, ErrUnrecognizedSigil) {
				t.Errorf("Decode = %v, want ErrUnrecognizedSigil", err)
			}
		})
	}
}

func TestDecodeTruncatedSignature(t *testing.T) {
	// v1: key codec 0x01, two attributes [0x0A 0x0B], encoding codec
	// 0x02, then a declared signature length of 2 with only one byte
	// present.
	data := []byte{0x34, 0x01, 0x02, 0x0A, 0x0B, 0x02, 0x02, 0xFF}
	_, _, err := Decode(data)
	if !errors.Is(err, ErrTruncatedSignature) {
		t.Errorf("Decode = %v, want ErrTruncatedSignature", err)
	}
}

func TestDecodeTruncatedAttributes(t *testing.T) {
	// v2: declared attribute count 3, input ends after two values.
	data := []byte{0x39, 0x01, 0x02, 0x03, 0x0A, 0x0B}
	_, _, err := Decode(data)
	if !errors.Is(err, ErrTruncatedAttributes) {
		t.Errorf("Decode = %v, want ErrTruncatedAttributes", err)
	}

	// An attribute cut mid-varint is the same failure: the input
	// ended before the declared count was satisfied.
	data = []byte{0x39, 0x01, 0x02, 0x02, 0x0A, 0x80}
	_, _, err = Decode(data)
	if !errors.Is(err, ErrTruncatedAttributes) {
		t.Errorf("Decode mid-varint = %v, want ErrTruncatedAttributes", err)
	}
}

func TestDecodeBadVarint(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		// A key codec of ten continuation bytes exceeds the 2^63-1
		// bound.
		data := append([]byte{0x34}, bytes.Repeat([]byte{0xFF}, 10)...)
		_, _, err := Decode(data)
		if !errors.Is(err, ErrBadVarint) {
			t.Fatalf("Decode = %v, want ErrBadVarint", err)
		}
		if !errors.Is(err, varint.ErrOverflow) {
			t.Errorf("Decode = %v, want varint.ErrOverflow in chain", err)
		}
	})

	t.Run("not minimal", func(t *testing.T) {
		// Key codec 0x01 padded to two bytes: decodes to the same
		// value but violates minimal encoding.
		data := []byte{0x34, 0x81, 0x00, 0x00, 0x02, 0x00}
		_, _, err := Decode(data)
		if !errors.Is(err, ErrBadVarint) {
			t.Fatalf("Decode = %v, want ErrBadVarint", err)
		}
		if !errors.Is(err, varint.ErrNotMinimal) {
			t.Errorf("Decode = %v, want varint.ErrNotMinimal in chain", err)
		}
	})

	t.Run("truncated key codec", func(t *testing.T) {
		data := []byte{0x39, 0x80}
		_, _, err := Decode(data)
		if !errors.Is(err, ErrBadVarint) {
			t.Fatalf("Decode = %v, want ErrBadVarint", err)
		}
		if !errors.Is(err, varint.ErrUnderflow) {
			t.Errorf("Decode = %v, want varint.ErrUnderflow in chain", err)
		}
	})
}

func TestDecodeEveryPrefixFails(t *testing.T) {
	// Counts and lengths are always explicit, so chopping any number
	// of trailing bytes from a valid envelope must produce a decode
	// error — never a silent short read.
	envelopes := []*Envelope{
		mustNew(t, V1, 0xE7, 0x55, []uint64{0x1B, 0xB220}, []byte{0xAA, 0xBB, 0xCC}),
		mustNew(t, V2, 0x1205, 0x0129, []uint64{0x12}, bytes.Repeat([]byte{0x42}, 32)),
	}
	for _, envelope := range envelopes {
		wire := envelope.Encode()
		for cut := 1; cut < len(wire); cut++ {
			if _, _, err := Decode(wire[:cut]); err == nil {
				t.Errorf("%s: Decode of %d-byte prefix (of %d) succeeded", envelope.Version(), cut, len(wire))
			}
		}
	}
}

func TestDecodeReportsConsumedWithTrailingData(t *testing.T) {
	envelope := mustNew(t, V2, 0xED, 0x55, nil, []byte{0x01, 0x02, 0x03})
	wire := envelope.Encode()
	trailing := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	decoded, consumed, err := Decode(append(bytes.Clone(wire), trailing...))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if consumed != len(wire) {
		t.Errorf("consumed = %d, want %d", consumed, len(wire))
	}
	if !decoded.Equal(envelope) {
		t.Errorf("decoded envelope differs from original")
	}
}

func TestDecodeBackToBackEnvelopes(t *testing.T) {
	// The consumed count supports framing several envelopes in one
	// buffer: decode, advance, decode again.
	first := mustNew(t, V1, 0x01, 0x02, nil, []byte{0xAA})
	second := mustNew(t, V2, 0xED, 0x55, []uint64{7}, []byte{0xBB, 0xCC})
	buffer := append(first.Encode(), second.Encode()...)

	decodedFirst, consumed, err := Decode(buffer)
	if err != nil {
		t.Fatalf("first Decode: %v", err)
	}
	if !decodedFirst.Equal(first) {
		t.Error("first envelope mismatch")
	}

	decodedSecond, consumed2, err := Decode(buffer[consumed:])
	if err != nil {
		t.Fatalf("second Decode: %v", err)
	}
	if !decodedSecond.Equal(second) {
		t.Error("second envelope mismatch")
	}
	if consumed+consumed2 != len(buffer) {
		t.Errorf("consumed %d+%d, want %d total", consumed, consumed2, len(buffer))
	}
}

func TestDecodeHostileAttributeCount(t *testing.T) {
	// A declared count of 2^40 with a two-byte input must fail
	// quickly without attempting a matching allocation.
	data := append([]byte{0x39, 0x01, 0x02}, varint.ToUvarint(1<<40)...)
	data = append(data, 0x0A, 0x0B)
	_, _, err := Decode(data)
	if !errors.Is(err, ErrTruncatedAttributes) {
		t.Errorf("Decode = %v, want ErrTruncatedAttributes", err)
	}
}
