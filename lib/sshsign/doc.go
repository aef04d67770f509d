// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

// Package sshsign produces varsig envelopes from SSH signatures.
//
// SSH is the one key ecosystem most developers already have: local
// OpenSSH private key files and a running ssh-agent. This package
// bridges that ecosystem to the varsig format: it signs data with an
// ssh.Signer (local key or agent key) and wraps the resulting
// signature in a v2 envelope whose key codec is the multicodec code
// for the signing algorithm.
//
// The mapping covers ed25519, ECDSA over the NIST curves, and the
// SHA-2 RSA signature algorithms. RSA envelopes carry one attribute:
// the multicodec code of the hash the signature commits to, since the
// key codec alone does not pin it down. The legacy "ssh-rsa" (SHA-1)
// format is deliberately absent from the mapping; Sign and
// SignWithAgent request rsa-sha2-512 for RSA keys rather than the
// signer's SHA-1 default.
//
// Signature bytes are carried in SSH wire form (ssh.Signature.Blob)
// untouched. For ed25519 that is the raw 64-byte signature; for ECDSA
// it is the SSH mpint encoding of (r, s). The envelope frames the
// bytes, it does not normalize them — a verifier needs to know it is
// looking at an SSH-produced signature, which the key codec plus the
// payload convention of the surrounding protocol conveys.
//
// This package only produces envelopes. It never verifies signatures.
package sshsign
