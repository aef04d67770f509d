// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package varsig

import "errors"

// Errors returned by New, Decode, and the exact-length entry points.
// Decode wraps these with per-field context (which field was being
// read when the failure occurred), so match with errors.Is.
var (
	// ErrUnrecognizedSigil means the first byte is neither defined
	// version tag: the input is not a varsig at all.
	ErrUnrecognizedSigil = errors.New("varsig: unrecognized sigil byte")

	// ErrInvalidVersion means New was given a Version that is not V1
	// or V2.
	ErrInvalidVersion = errors.New("varsig: invalid version")

	// ErrBadVarint means a varint field is truncated, not minimally
	// encoded, or exceeds the committed 2^63-1 bound. The underlying
	// go-varint sentinel is also in the wrap chain.
	ErrBadVarint = errors.New("varsig: malformed varint")

	// ErrTruncatedAttributes means the input ended before the
	// declared number of attribute values could be read.
	ErrTruncatedAttributes = errors.New("varsig: truncated attribute list")

	// ErrTruncatedSignature means fewer signature bytes remain than
	// the declared signature length.
	ErrTruncatedSignature = errors.New("varsig: truncated signature")

	// ErrTrailingData means bytes remained after a fully-parsed
	// envelope in a context that expects exact-length input
	// (DecodeText, UnmarshalCBOR, UnmarshalBinary). Decode itself
	// never returns this; it reports consumed bytes instead.
	ErrTrailingData = errors.New("varsig: trailing data after envelope")
)
