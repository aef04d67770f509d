// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package varsig

import (
	"fmt"

	"github.com/multiformats/go-multibase"
)

// EncodeText renders the envelope's wire bytes in the given multibase
// encoding: a single leading base-identifier character followed by
// the encoded bytes. The byte layout is exactly Encode's output; the
// multibase wrapper is transport dressing, not part of the format.
func (e *Envelope) EncodeText(base multibase.Encoding) (string, error) {
	text, err := multibase.Encode(base, e.Encode())
	if err != nil {
		return "", fmt.Errorf("varsig: multibase encode: %w", err)
	}
	return text, nil
}

// DecodeText parses a multibase-wrapped envelope. Unlike Decode, the
// text must contain exactly one envelope: leftover bytes after the
// envelope fail with ErrTrailingData, since a printable string has no
// framing that could account for them.
func DecodeText(text string) (*Envelope, error) {
	_, data, err := multibase.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("varsig: multibase decode: %w", err)
	}
	envelope, consumed, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(data)-consumed)
	}
	return envelope, nil
}

// String renders the envelope in lower-case base16 with the multibase
// 'f' prefix, the format's preferred text encoding.
func (e *Envelope) String() string {
	text, err := e.EncodeText(multibase.Base16)
	if err != nil {
		// Base16 accepts any byte input; this branch is unreachable.
		return ""
	}
	return text
}
