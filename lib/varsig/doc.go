// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

// Package varsig implements the varsig self-describing signature
// envelope: a compact binary format that tags a raw cryptographic
// signature with the key algorithm that produced it, the encoding of
// the signed payload, and algorithm-specific auxiliary values.
//
// An envelope does not sign or verify anything. It frames signature
// metadata so that a consumer can decide how to interpret the
// signature bytes — or, if it does not recognize the key algorithm,
// still recover the payload-encoding tag and the raw signature.
//
// # Wire format
//
// Two grammars exist, selected by the leading sigil byte. All integer
// fields are unsigned varints (see "Varint bound" below); the
// signature is always length-prefixed, never inferred from the
// remaining input, so envelopes compose safely inside larger framed
// messages.
//
//	v1: 0x34 <key-codec> <attr-count> attrs... <encoding-codec> <sig-len> sig...
//	v2: 0x39 <key-codec> <encoding-codec> <attr-count> attrs... <sig-len> sig...
//
// The v2 layout moves the encoding codec ahead of the attribute block
// so that a consumer who does not understand the key codec (and
// therefore cannot interpret the attributes) can still read the
// encoding codec and signature bytes. That forward-compatibility
// property is the entire reason v2 exists.
//
// Key and encoding codec values are opaque to this package. They are
// conventionally drawn from the multicodec table, but nothing here
// validates them against a registry; unrecognized values round-trip
// untouched.
//
// # Varint bound
//
// Integer fields are multiformats unsigned varints as implemented by
// github.com/multiformats/go-varint: at most 9 bytes, minimally
// encoded, values up to 2^63-1. Inputs that exceed that bound or that
// are not minimally encoded fail decoding with [ErrBadVarint]. This
// bound is the committed numeric contract of the format as
// implemented here.
//
// # Usage
//
//	envelope, err := varsig.New(varsig.V2, keyCodec, encodingCodec, attrs, sig)
//	wire := envelope.Encode()
//
//	decoded, consumed, err := varsig.Decode(wire)
//
// Decode returns how many bytes it consumed and never treats trailing
// input as an error; callers embedding envelopes in larger messages
// use the count to find the next field. The exact-length entry points
// (DecodeText, UnmarshalCBOR, UnmarshalBinary) reject leftover bytes
// with [ErrTrailingData].
//
// Envelopes are immutable after construction and freely shareable
// across goroutines; every function in this package is a pure
// function over its inputs.
package varsig
