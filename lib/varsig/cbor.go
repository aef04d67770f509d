// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package varsig

import (
	"encoding"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Serialization-framework bridge: within a structured format an
// envelope is a single opaque byte string equal to its wire encoding.
// The bridge never alters the byte layout — it only wraps Encode and
// Decode so envelopes can appear as fields of larger CBOR or
// stdlib-serialized structures.
var (
	_ cbor.Marshaler             = (*Envelope)(nil)
	_ cbor.Unmarshaler           = (*Envelope)(nil)
	_ encoding.BinaryMarshaler   = (*Envelope)(nil)
	_ encoding.BinaryUnmarshaler = (*Envelope)(nil)
)

// MarshalCBOR encodes the envelope as a CBOR byte string holding the
// wire bytes.
func (e *Envelope) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(e.Encode())
}

// UnmarshalCBOR decodes a CBOR byte string holding exactly one
// envelope. This is a construction path, not a mutation path: the
// receiver is wholly replaced by the decoded envelope. Trailing bytes
// inside the byte string fail with ErrTrailingData.
func (e *Envelope) UnmarshalCBOR(data []byte) error {
	var wire []byte
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("varsig: cbor byte string: %w", err)
	}
	return e.UnmarshalBinary(wire)
}

// MarshalBinary returns the wire encoding, satisfying
// encoding.BinaryMarshaler.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	return e.Encode(), nil
}

// UnmarshalBinary decodes data holding exactly one envelope. Trailing
// bytes fail with ErrTrailingData; callers that frame envelopes
// themselves should use Decode and its consumed count instead.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	envelope, consumed, err := Decode(data)
	if err != nil {
		return err
	}
	if consumed != len(data) {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, len(data)-consumed)
	}
	*e = *envelope
	return nil
}
