// Copyright 2026 The Varsig Authors
// SPDX-License-Identifier: Apache-2.0

// varsig-inspect decodes a varsig envelope and prints its fields.
//
// The envelope is given either as a multibase string argument or as
// raw bytes via --file ("-" reads stdin). Trailing bytes after the
// envelope are reported, not rejected — the tool shows what a framing
// caller would see.
//
//	varsig-inspect f3401000202aabb
//	varsig-inspect --file sig.bin
//	some-producer | varsig-inspect --file -
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/spf13/pflag"

	"github.com/cryptidtech/varsig/lib/varsig"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("varsig-inspect", pflag.ContinueOnError)
	filePath := flags.StringP("file", "f", "", "read raw envelope bytes from this file (\"-\" for stdin)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: varsig-inspect [--file PATH | MULTIBASE-STRING]\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	data, err := readInput(*filePath, flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	envelope, consumed, err := varsig.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	printEnvelope(envelope, consumed, len(data))
	return 0
}

// readInput resolves the two input forms: --file bytes or a single
// multibase positional argument.
func readInput(filePath string, arguments []string) ([]byte, error) {
	switch {
	case filePath != "" && len(arguments) > 0:
		return nil, fmt.Errorf("give either --file or a multibase argument, not both")
	case filePath == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		return data, nil
	case len(arguments) > 1:
		return nil, fmt.Errorf("expected exactly one multibase argument, got %d", len(arguments))
	case len(arguments) == 1:
		_, data, err := multibase.Decode(arguments[0])
		if err != nil {
			return nil, fmt.Errorf("multibase decode: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("no input (see --help)")
	}
}

func printEnvelope(envelope *varsig.Envelope, consumed, total int) {
	fmt.Printf("version:        %s (sigil 0x%02x)\n", envelope.Version(), envelope.Version().Sigil())
	fmt.Printf("key codec:      %s\n", codecLabel(envelope.KeyCodec()))
	fmt.Printf("encoding codec: %s\n", codecLabel(envelope.EncodingCodec()))

	attributes := envelope.Attributes()
	if len(attributes) == 0 {
		fmt.Printf("attributes:     (none)\n")
	} else {
		labels := make([]string, len(attributes))
		for i, attribute := range attributes {
			labels[i] = fmt.Sprintf("0x%x", attribute)
		}
		fmt.Printf("attributes:     [%s]\n", strings.Join(labels, " "))
	}

	signature := envelope.Signature()
	fmt.Printf("signature:      %d bytes\n", len(signature))
	if len(signature) > 0 {
		fmt.Printf("  %s\n", hex.EncodeToString(signature))
	}

	if trailing := total - consumed; trailing > 0 {
		fmt.Printf("consumed:       %d of %d bytes (%d trailing)\n", consumed, total, trailing)
	} else {
		fmt.Printf("consumed:       %d bytes\n", consumed)
	}
}

// codecLabel renders a codec number with its multicodec table name
// when the table knows it. Unknown codes stay numeric — the codec
// namespace is opaque to the format and an unregistered value is not
// an error.
func codecLabel(code uint64) string {
	name := multicodec.Code(code).String()
	if name != "" && !strings.HasPrefix(name, "Code(") {
		return fmt.Sprintf("0x%x (%s)", code, name)
	}
	return fmt.Sprintf("0x%x", code)
}
