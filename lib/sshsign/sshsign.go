// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

package sshsign

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/multiformats/go-multicodec"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/cryptidtech/varsig/lib/varsig"
)

// Errors returned by the signing and agent helpers.
var (
	ErrUnsupportedAlgorithm = errors.New("sshsign: unsupported signature algorithm")
	ErrNoAgent              = errors.New("sshsign: ssh-agent socket not available (SSH_AUTH_SOCK unset)")
	ErrKeyNotFound          = errors.New("sshsign: no agent key matches")
)

// algorithm describes how one SSH signature format maps into an
// envelope: the multicodec key codec plus any attributes the format
// requires.
type algorithm struct {
	keyCodec   uint64
	attributes []uint64
}

// algorithms maps SSH signature format names to their envelope
// representation. RSA formats carry the hash algorithm as an
// attribute because "rsa-sha2-256" and "rsa-sha2-512" share a key
// codec. "ssh-rsa" (SHA-1) is deliberately unmapped.
var algorithms = map[string]algorithm{
	ssh.KeyAlgoED25519:  {keyCodec: uint64(multicodec.Ed25519Pub)},
	ssh.KeyAlgoECDSA256: {keyCodec: uint64(multicodec.P256Pub)},
	ssh.KeyAlgoECDSA384: {keyCodec: uint64(multicodec.P384Pub)},
	ssh.KeyAlgoECDSA521: {keyCodec: uint64(multicodec.P521Pub)},
	ssh.KeyAlgoRSASHA256: {
		keyCodec:   uint64(multicodec.RsaPub),
		attributes: []uint64{uint64(multicodec.Sha2_256)},
	},
	ssh.KeyAlgoRSASHA512: {
		keyCodec:   uint64(multicodec.RsaPub),
		attributes: []uint64{uint64(multicodec.Sha2_512)},
	},
}

// FromSignature wraps an already-produced SSH signature in a v2
// envelope. The envelope's encoding codec is "raw": SSH signs the
// payload bytes as given, with no structured encoding in between.
func FromSignature(signature *ssh.Signature) (*varsig.Envelope, error) {
	mapping, ok := algorithms[signature.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, signature.Format)
	}
	return varsig.New(varsig.V2, mapping.keyCodec, uint64(multicodec.Raw), mapping.attributes, signature.Blob)
}

// Sign signs data with the given signer and wraps the result in a v2
// envelope. RSA keys are signed as rsa-sha2-512: an ssh.Signer's
// default for RSA is the legacy SHA-1 "ssh-rsa" format, which the
// algorithm table does not admit.
func Sign(signer ssh.Signer, data []byte) (*varsig.Envelope, error) {
	var signature *ssh.Signature
	var err error
	if algorithmSigner, ok := signer.(ssh.AlgorithmSigner); ok && signer.PublicKey().Type() == ssh.KeyAlgoRSA {
		signature, err = algorithmSigner.SignWithAlgorithm(rand.Reader, data, ssh.KeyAlgoRSASHA512)
	} else {
		signature, err = signer.Sign(rand.Reader, data)
	}
	if err != nil {
		return nil, fmt.Errorf("sshsign: signing: %w", err)
	}
	return FromSignature(signature)
}

// LoadSigner parses an OpenSSH private key file. For encrypted keys
// it fails with an error satisfying IsPassphraseMissing; callers
// should prompt and retry with LoadSignerWithPassphrase.
func LoadSigner(path string) (ssh.Signer, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sshsign: reading key file: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("sshsign: parsing %s: %w", path, err)
	}
	return signer, nil
}

// LoadSignerWithPassphrase parses an encrypted OpenSSH private key
// file.
func LoadSignerWithPassphrase(path string, passphrase []byte) (ssh.Signer, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sshsign: reading key file: %w", err)
	}
	signer, err := ssh.ParsePrivateKeyWithPassphrase(pemBytes, passphrase)
	if err != nil {
		return nil, fmt.Errorf("sshsign: parsing %s: %w", path, err)
	}
	return signer, nil
}

// IsPassphraseMissing reports whether err indicates an encrypted key
// that needs a passphrase.
func IsPassphraseMissing(err error) bool {
	var missing *ssh.PassphraseMissingError
	return errors.As(err, &missing)
}

// OpenAgent connects to the ssh-agent at socketPath. An empty path
// falls back to $SSH_AUTH_SOCK. The caller closes the returned
// connection when done with the agent.
func OpenAgent(socketPath string) (agent.ExtendedAgent, io.Closer, error) {
	if socketPath == "" {
		socketPath = os.Getenv("SSH_AUTH_SOCK")
	}
	if socketPath == "" {
		return nil, nil, ErrNoAgent
	}
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, nil, fmt.Errorf("sshsign: connecting to ssh-agent: %w", err)
	}
	return agent.NewClient(conn), conn, nil
}

// SignWithAgent signs data with an agent-held key and wraps the
// result in a v2 envelope. The selector picks the key by exact
// comment match or SHA256 fingerprint prefix; an empty selector uses
// the agent's first key. RSA keys are signed as rsa-sha2-512 via the
// agent signature flags, since the agent's plain Sign defaults RSA to
// the legacy SHA-1 "ssh-rsa" format.
func SignWithAgent(agentClient agent.ExtendedAgent, selector string, data []byte) (*varsig.Envelope, error) {
	key, err := findAgentKey(agentClient, selector)
	if err != nil {
		return nil, err
	}
	var signature *ssh.Signature
	if key.Type() == ssh.KeyAlgoRSA {
		signature, err = agentClient.SignWithFlags(key, data, agent.SignatureFlagRsaSha512)
	} else {
		signature, err = agentClient.Sign(key, data)
	}
	if err != nil {
		return nil, fmt.Errorf("sshsign: agent signing: %w", err)
	}
	return FromSignature(signature)
}

// findAgentKey resolves a selector against the agent's key list.
func findAgentKey(agentClient agent.Agent, selector string) (*agent.Key, error) {
	keys, err := agentClient.List()
	if err != nil {
		return nil, fmt.Errorf("sshsign: listing agent keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: agent holds no keys", ErrKeyNotFound)
	}
	if selector == "" {
		return keys[0], nil
	}
	for _, key := range keys {
		if key.Comment == selector {
			return key, nil
		}
		if strings.HasPrefix(ssh.FingerprintSHA256(key), selector) {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, selector)
}
