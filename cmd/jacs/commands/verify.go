// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/provenance"
	"github.com/jacs-foundation/jacs/lib/signer"
)

type verifyParams struct {
	Config     string
	PublicKeys []string
}

func verifyCommand() *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Verify an envelope and its chain of custody",
		Usage:   "jacs verify [file] [flags]",
		Description: `Verify an envelope's signature and, recursively, every ancestor
in its chain of custody.

Verification keys are collected into a key directory: the configured
agent's own key (when a config is available) plus any --pubkey files.
Each --pubkey file holds either a bare base64 Ed25519 key or a
published jacs-pubkey.json document.

The full verification tree is printed as JSON. The exit status is
nonzero when the chain does not verify.`,
		Examples: []cli.Example{
			{
				Description: "Verify a locally produced envelope",
				Command:     "jacs verify envelope.json",
			},
			{
				Description: "Verify a received envelope against a peer's published key",
				Command:     "jacs verify envelope.json --pubkey peer-pubkey.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to jacs.yaml (default: JACS_CONFIG)")
			flagSet.StringArrayVar(&params.PublicKeys, "pubkey", nil, "verification key file (repeatable)")
			return flagSet
		},
		Run: func(args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			envelope, err := readEnvelope(path)
			if err != nil {
				return err
			}

			directory := signer.NewDirectory()

			// The agent's own key is optional here: verifying a
			// third-party chain needs only --pubkey material.
			if cfg, err := loadConfig(params.Config); err == nil {
				if agent, err := loadAgent(cfg); err == nil {
					if _, err := directory.Add(agent.PublicKey()); err != nil {
						return err
					}
				}
			}
			for _, keyPath := range params.PublicKeys {
				public, err := readPublicKey(keyPath)
				if err != nil {
					return err
				}
				if _, err := directory.Add(public); err != nil {
					return err
				}
			}

			verifier, err := provenance.NewChainVerifier(directory)
			if err != nil {
				return err
			}
			result, err := verifier.VerifyChain(envelope)
			if err != nil {
				return err
			}
			if err := cli.WriteJSON(result); err != nil {
				return err
			}
			if !result.ChainValid() {
				return fmt.Errorf("chain did not verify")
			}
			return nil
		},
	}
}
