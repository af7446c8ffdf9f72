// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/provenance"
	"github.com/jacs-foundation/jacs/lib/schema"
)

func bundleCommand() *cli.Command {
	return &cli.Command{
		Name:    "bundle",
		Summary: "Export and import envelope bundles",
		Usage:   "jacs bundle <subcommand> [flags]",
		Description: `Package envelopes into a compact binary bundle for transfer
between agents, or unpack a received bundle back into JSON
envelopes.`,
		Subcommands: []*cli.Command{
			bundleExportCommand(),
			bundleImportCommand(),
		},
	}
}

type bundleExportParams struct {
	Out         string
	Compression string
}

func bundleExportCommand() *cli.Command {
	var params bundleExportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Pack envelope files into a bundle",
		Usage:   "jacs bundle export <file>... --out <bundle> [flags]",
		Examples: []cli.Example{
			{
				Description: "Pack two envelopes with zstd compression",
				Command:     "jacs bundle export a.json b.json --out chain.jacb",
			},
			{
				Description: "Pack without compression",
				Command:     "jacs bundle export a.json --out a.jacb --compression none",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
			flagSet.StringVar(&params.Out, "out", "", "output bundle path (required)")
			flagSet.StringVar(&params.Compression, "compression", "zstd", "compression: none, lz4, or zstd")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one envelope file is required")
			}
			if params.Out == "" {
				return fmt.Errorf("--out is required")
			}
			tag, err := provenance.ParseCompressionTag(params.Compression)
			if err != nil {
				return err
			}

			envelopes := make([]*schema.Envelope, 0, len(args))
			for _, path := range args {
				envelope, err := readEnvelope(path)
				if err != nil {
					return err
				}
				envelopes = append(envelopes, envelope)
			}

			data, err := provenance.Export(envelopes, tag)
			if err != nil {
				return err
			}
			if err := os.WriteFile(params.Out, data, 0o644); err != nil {
				return fmt.Errorf("writing bundle: %w", err)
			}
			fmt.Printf("wrote %d envelopes (%d bytes) to %s\n", len(envelopes), len(data), params.Out)
			return nil
		},
	}
}

type bundleImportParams struct {
	OutDir string
}

func bundleImportCommand() *cli.Command {
	var params bundleImportParams

	return &cli.Command{
		Name:    "import",
		Summary: "Unpack a bundle into envelope files",
		Usage:   "jacs bundle import <bundle> [flags]",
		Description: `Unpack a bundle. Without --out-dir each envelope is printed to
stdout as JSON; with it, each envelope is written to
<out-dir>/<jacsId>.json.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("import", pflag.ContinueOnError)
			flagSet.StringVar(&params.OutDir, "out-dir", "", "directory to write envelope files into")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one bundle file is required")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading bundle: %w", err)
			}
			envelopes, err := provenance.Import(data)
			if err != nil {
				return err
			}

			if params.OutDir == "" {
				for _, envelope := range envelopes {
					if err := cli.WriteJSON(envelope); err != nil {
						return err
					}
				}
				return nil
			}

			if err := os.MkdirAll(params.OutDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			for _, envelope := range envelopes {
				if err := writeEnvelope(params.OutDir, envelope); err != nil {
					return err
				}
			}
			fmt.Printf("wrote %d envelopes to %s\n", len(envelopes), params.OutDir)
			return nil
		},
	}
}
