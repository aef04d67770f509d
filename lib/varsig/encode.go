// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package varsig

import (
	"github.com/multiformats/go-varint"
)

// Encode serializes the envelope to its wire form:
//
//	v1: 0x34 <key-codec> <attr-count> attrs... <encoding-codec> <sig-len> sig...
//	v2: 0x39 <key-codec> <encoding-codec> <attr-count> attrs... <sig-len> sig...
//
// Encode is total: every envelope New will construct has a wire form,
// so there is no error path. The returned slice is freshly allocated
// and owned by the caller.
func (e *Envelope) Encode() []byte {
	size := 1 +
		varint.UvarintSize(e.keyCodec) +
		varint.UvarintSize(e.encodingCodec) +
		varint.UvarintSize(uint64(len(e.attributes))) +
		varint.UvarintSize(uint64(len(e.signature))) +
		len(e.signature)
	for _, attribute := range e.attributes {
		size += varint.UvarintSize(attribute)
	}

	out := make([]byte, 0, size)
	out = append(out, e.version.Sigil())
	out = append(out, varint.ToUvarint(e.keyCodec)...)
	if e.version == V1 {
		out = appendAttributes(out, e.attributes)
		out = append(out, varint.ToUvarint(e.encodingCodec)...)
	} else {
		out = append(out, varint.ToUvarint(e.encodingCodec)...)
		out = appendAttributes(out, e.attributes)
	}
	out = append(out, varint.ToUvarint(uint64(len(e.signature)))...)
	out = append(out, e.signature...)
	return out
}

// appendAttributes writes the attribute count followed by each
// attribute value, in stored order.
func appendAttributes(out []byte, attributes []uint64) []byte {
	out = append(out, varint.ToUvarint(uint64(len(attributes)))...)
	for _, attribute := range attributes {
		out = append(out, varint.ToUvarint(attribute)...)
	}
	return out
}
