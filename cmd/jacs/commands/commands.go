// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete jacs CLI command tree.
package commands

import (
	"fmt"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/version"
)

// Root builds and returns the complete jacs CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "jacs",
		Description: `JACS: agent provenance and trust.

Wrap artifacts in signed provenance envelopes, verify chains of
custody, evaluate trust policies against remote agent cards, and
publish discovery documents.`,
		Subcommands: []*cli.Command{
			keygenCommand(),
			wrapCommand(),
			verifyCommand(),
			bundleCommand(),
			discoverCommand(),
			trustCommand(),
			cardCommand(),
			serveCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("jacs %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Generate a signing keypair",
				Command:     "jacs keygen --out ~/.cache/jacs/agent.key",
			},
			{
				Description: "Wrap a task artifact in a signed envelope",
				Command:     "jacs wrap task.json --type task",
			},
			{
				Description: "Verify an envelope chain",
				Command:     "jacs verify envelope.json",
			},
			{
				Description: "Discover and assess a remote agent",
				Command:     "jacs discover https://agent.example.com --assess --policy strict",
			},
			{
				Description: "Serve this agent's discovery documents",
				Command:     "jacs serve --listen 127.0.0.1:8317",
			},
		},
	}
}
