// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/signer"
)

type keygenParams struct {
	Out   string
	Force bool
}

func keygenCommand() *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an Ed25519 signing keypair",
		Usage:   "jacs keygen --out <path> [flags]",
		Description: `Generate a new Ed25519 keypair for envelope signing.

The private key is written to --out with mode 0600. The public key
hash is printed so it can be shared with verifying peers.`,
		Examples: []cli.Example{
			{
				Description: "Generate the agent's signing key",
				Command:     "jacs keygen --out ~/.cache/jacs/agent.key",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.StringVar(&params.Out, "out", "", "path to write the private key")
			flagSet.BoolVar(&params.Force, "force", false, "overwrite an existing key file")
			return flagSet
		},
		Run: func(args []string) error {
			if params.Out == "" {
				return fmt.Errorf("--out is required")
			}
			if !params.Force {
				if _, err := os.Stat(params.Out); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", params.Out)
				}
			}

			public, private, err := signer.GenerateKeypair()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(params.Out), 0o755); err != nil {
				return fmt.Errorf("creating key directory: %w", err)
			}
			if err := writePrivateKey(params.Out, private); err != nil {
				return err
			}

			fmt.Printf("wrote %s\npublic key hash: %s\n", params.Out, signer.KeyHash(public))
			return nil
		},
	}
}
