// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

// varsig-sign signs a file with an SSH key and prints the resulting
// varsig envelope as a multibase string.
//
// The signing key comes from a local OpenSSH private key file
// (--key; passphrase prompted when the key is encrypted) or from the
// ssh-agent (the default, key selected with --agent-key by comment or
// SHA256 fingerprint prefix). --list prints the agent's identities.
//
//	varsig-sign release.tar.gz
//	varsig-sign --key ~/.ssh/id_ed25519 --base base58btc release.tar.gz
//	varsig-sign --agent-key deploy-key - < release.tar.gz
//	varsig-sign --list
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/multiformats/go-multibase"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"github.com/cryptidtech/varsig/lib/sshsign"
	"github.com/cryptidtech/varsig/lib/varsig"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("varsig-sign", pflag.ContinueOnError)
	keyPath := flags.StringP("key", "k", "", "OpenSSH private key file (default: use the ssh-agent)")
	agentKey := flags.String("agent-key", "", "agent key selector: comment or SHA256 fingerprint prefix")
	agentSocket := flags.String("agent-socket", "", "ssh-agent socket path (default: $SSH_AUTH_SOCK)")
	baseName := flags.StringP("base", "b", "base16", "multibase encoding for the output")
	list := flags.BoolP("list", "l", false, "list ssh-agent identities and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: varsig-sign [flags] FILE (\"-\" for stdin)\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	if *list {
		if err := listAgentKeys(*agentSocket); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}

	data, err := readPayload(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	var envelope *varsig.Envelope
	if *keyPath != "" {
		envelope, err = signWithKeyFile(*keyPath, data)
	} else {
		envelope, err = signWithAgent(*agentSocket, *agentKey, data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	encoder, err := multibase.EncoderByName(*baseName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: unknown multibase %q: %v\n", *baseName, err)
		return 2
	}
	fmt.Println(encoder.Encode(envelope.Encode()))
	return 0
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}

// signWithKeyFile signs with a local OpenSSH key, prompting for a
// passphrase when the key is encrypted and a terminal is available.
func signWithKeyFile(path string, data []byte) (*varsig.Envelope, error) {
	signer, err := sshsign.LoadSigner(path)
	if err != nil {
		if !sshsign.IsPassphraseMissing(err) {
			return nil, err
		}
		passphrase, promptErr := promptPassphrase(path)
		if promptErr != nil {
			return nil, promptErr
		}
		signer, err = sshsign.LoadSignerWithPassphrase(path, passphrase)
		if err != nil {
			return nil, err
		}
	}
	return sshsign.Sign(signer, data)
}

func promptPassphrase(path string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is encrypted and stdin is not a terminal; cannot prompt for passphrase", path)
	}
	fmt.Fprintf(os.Stderr, "passphrase for %s: ", path)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	return passphrase, nil
}

func signWithAgent(socketPath, selector string, data []byte) (*varsig.Envelope, error) {
	agentClient, closer, err := sshsign.OpenAgent(socketPath)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return sshsign.SignWithAgent(agentClient, selector, data)
}

func listAgentKeys(socketPath string) error {
	agentClient, closer, err := sshsign.OpenAgent(socketPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	keys, err := agentClient.List()
	if err != nil {
		return fmt.Errorf("listing agent keys: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(os.Stderr, "ssh-agent holds no keys")
		return nil
	}
	for _, key := range keys {
		fmt.Printf("%s %s %s\n", key.Format, ssh.FingerprintSHA256(key), key.Comment)
	}
	return nil
}
