// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package varsig

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/multiformats/go-varint"
)

// Decode parses one envelope from the front of data and returns it
// along with the number of bytes consumed. Trailing bytes are not an
// error: callers framing envelopes inside larger messages use the
// consumed count to find the next field, and callers that require
// exact-length input check consumed against len(data) themselves (or
// use DecodeText / UnmarshalBinary, which do).
//
// Decode is stateless: each call is an independent pass over its
// input, and a truncated input fails outright rather than being
// staged for continuation. Failures wrap the sentinel errors in this
// package and name the field that was being read.
func Decode(data []byte) (*Envelope, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty input", ErrUnrecognizedSigil)
	}

	var version Version
	switch data[0] {
	case SigilV1:
		version = V1
	case SigilV2:
		version = V2
	default:
		return nil, 0, fmt.Errorf("%w: 0x%02x", ErrUnrecognizedSigil, data[0])
	}
	offset := 1

	keyCodec, n, err := readUvarint(data[offset:], "key codec")
	if err != nil {
		return nil, 0, err
	}
	offset += n

	var encodingCodec uint64
	var attributes []uint64
	if version == V1 {
		attributes, n, err = readAttributes(data[offset:])
		if err != nil {
			return nil, 0, err
		}
		offset += n

		encodingCodec, n, err = readUvarint(data[offset:], "encoding codec")
		if err != nil {
			return nil, 0, err
		}
		offset += n
	} else {
		encodingCodec, n, err = readUvarint(data[offset:], "encoding codec")
		if err != nil {
			return nil, 0, err
		}
		offset += n

		attributes, n, err = readAttributes(data[offset:])
		if err != nil {
			return nil, 0, err
		}
		offset += n
	}

	signatureLength, n, err := readUvarint(data[offset:], "signature length")
	if err != nil {
		return nil, 0, err
	}
	offset += n

	if signatureLength > uint64(len(data)-offset) {
		return nil, 0, fmt.Errorf("%w: declared %d bytes, %d remain",
			ErrTruncatedSignature, signatureLength, len(data)-offset)
	}
	signature := bytes.Clone(data[offset : offset+int(signatureLength)])
	offset += int(signatureLength)

	return &Envelope{
		version:       version,
		keyCodec:      keyCodec,
		encodingCodec: encodingCodec,
		attributes:    attributes,
		signature:     signature,
	}, offset, nil
}

// readUvarint decodes one varint field, wrapping failures with
// ErrBadVarint and the field name. The go-varint sentinel
// (ErrUnderflow, ErrOverflow, ErrNotMinimal) stays in the chain.
func readUvarint(data []byte, field string) (uint64, int, error) {
	value, n, err := varint.FromUvarint(data)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrBadVarint, field, err)
	}
	return value, n, nil
}

// readAttributes decodes the attribute count and then exactly that
// many attribute varints. Running out of input mid-list is
// ErrTruncatedAttributes, not a short-but-valid result.
func readAttributes(data []byte) ([]uint64, int, error) {
	count, offset, err := readUvarint(data, "attribute count")
	if err != nil {
		return nil, 0, err
	}

	// Each attribute occupies at least one byte, so the remaining
	// input bounds a sane preallocation even for a hostile count.
	capacity := count
	if remaining := uint64(len(data) - offset); capacity > remaining {
		capacity = remaining
	}
	attributes := make([]uint64, 0, capacity)

	for i := uint64(0); i < count; i++ {
		value, n, err := varint.FromUvarint(data[offset:])
		if err != nil {
			if errors.Is(err, varint.ErrUnderflow) {
				return nil, 0, fmt.Errorf("%w: declared %d, input ended after %d",
					ErrTruncatedAttributes, count, i)
			}
			return nil, 0, fmt.Errorf("%w: attribute %d: %w", ErrBadVarint, i, err)
		}
		attributes = append(attributes, value)
		offset += n
	}
	return attributes, offset, nil
}
