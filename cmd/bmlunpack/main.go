package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/saiko-tech/bml-exporter/pkg/bml"
)

func main() {
	output := flag.String("o", "", "Output file (default: <input>_uncompressed.bml)")
	info := flag.Bool("info", false, "Only print the header and the node table")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bmlunpack [-o output] [-info] file.bml")
		os.Exit(2)
	}

	in := flag.Arg(0)

	data, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *info {
		if err := printInfo(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	unpacked, err := bml.Uncompressed(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error unpacking %s: %v\n", in, err)
		os.Exit(1)
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(in, ".bml") + "_uncompressed.bml"
	}

	if err := os.WriteFile(out, unpacked, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d -> %d bytes\n", out, len(data), len(unpacked))
}

func printInfo(data []byte) error {
	h, payload, err := bml.Unpack(data)
	if err != nil {
		return err
	}

	m, err := bml.DecodePayload(payload)
	if err != nil {
		return err
	}

	fmt.Printf("version %d, %s, payload %d bytes, compressed %d bytes\n",
		h.Version, h.Compression, h.PayloadSize, h.CompressedSize)
	fmt.Printf("script %d, %d materials, %d indices, %d vertices, %d nodes\n",
		m.Script, len(m.Materials), len(m.Indices), m.VertexCount, len(m.Nodes))

	for i, name := range m.Materials {
		fmt.Printf("  material %d: %s\n", i, name)
	}

	for _, n := range m.Nodes {
		fmt.Printf("  node %4d %s\n", n.Index, n.Payload.Type())
	}

	return nil
}
