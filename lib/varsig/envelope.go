// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package varsig

import (
	"bytes"
	"fmt"
	"slices"
)

// Version selects which wire grammar an envelope uses. The two
// grammars carry the same logical fields in different byte orders;
// see the package documentation for the layouts.
type Version byte

const (
	// V1 is the original layout: attributes before the encoding
	// codec, so a consumer must understand the key codec (and its
	// attribute count) to reach the encoding codec.
	V1 Version = 1

	// V2 places the encoding codec immediately after the key codec,
	// making it recoverable without interpreting the attributes.
	V2 Version = 2
)

// Sigil bytes: the leading wire byte that selects the grammar. Any
// other leading byte is an immediate decode error; no other sigil
// values are defined.
const (
	SigilV1 byte = 0x34
	SigilV2 byte = 0x39
)

// Sigil returns the leading wire byte for this version, or 0 for a
// version that is not a defined grammar.
func (v Version) Sigil() byte {
	switch v {
	case V1:
		return SigilV1
	case V2:
		return SigilV2
	}
	return 0
}

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	}
	return fmt.Sprintf("invalid version %d", byte(v))
}

// Envelope is one varsig value: a version tag, two opaque codec
// numbers, an ordered list of algorithm-specific attribute values,
// and the raw signature bytes. Envelopes are immutable after
// construction: the constructor and accessors copy slices, so an
// Envelope never shares buffers with its caller and is safe to read
// from any number of goroutines.
type Envelope struct {
	version       Version
	keyCodec      uint64
	encodingCodec uint64
	attributes    []uint64
	signature     []byte
}

// New constructs an envelope. The version must be V1 or V2; every
// other field is opaque to this package and stored as given (slices
// are copied). Codec values are never checked against a registry —
// unrecognized values round-trip untouched.
func New(version Version, keyCodec, encodingCodec uint64, attributes []uint64, signature []byte) (*Envelope, error) {
	if version != V1 && version != V2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, byte(version))
	}
	return &Envelope{
		version:       version,
		keyCodec:      keyCodec,
		encodingCodec: encodingCodec,
		attributes:    slices.Clone(attributes),
		signature:     slices.Clone(signature),
	}, nil
}

// Version returns the wire grammar this envelope uses. The version is
// fixed for the envelope's whole lifetime; re-laying-out the same
// fields under the other grammar means constructing a new envelope.
func (e *Envelope) Version() Version {
	return e.version
}

// KeyCodec returns the numeric tag identifying the signing-key
// algorithm. Opaque to this package.
func (e *Envelope) KeyCodec() uint64 {
	return e.keyCodec
}

// EncodingCodec returns the numeric tag identifying how the signed
// payload was encoded before signing. Opaque to this package.
func (e *Envelope) EncodingCodec() uint64 {
	return e.encodingCodec
}

// Attributes returns a copy of the algorithm-specific auxiliary
// values, in wire order. The signing algorithm defines how many
// attributes it expects and what they mean; this package stores and
// round-trips whatever count appears on the wire.
func (e *Envelope) Attributes() []uint64 {
	return slices.Clone(e.attributes)
}

// Signature returns a copy of the raw signature bytes.
func (e *Envelope) Signature() []byte {
	return slices.Clone(e.signature)
}

// Equal reports structural equality: same version, same codecs, same
// attributes in the same order, same signature bytes.
func (e *Envelope) Equal(other *Envelope) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.version == other.version &&
		e.keyCodec == other.keyCodec &&
		e.encodingCodec == other.encodingCodec &&
		slices.Equal(e.attributes, other.attributes) &&
		bytes.Equal(e.signature, other.signature)
}
