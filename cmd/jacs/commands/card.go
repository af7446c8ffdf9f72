// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/config"
	"github.com/jacs-foundation/jacs/lib/interop"
	"github.com/jacs-foundation/jacs/lib/signer"
)

type cardParams struct {
	Config string
	Signed bool
	Which  string
}

func cardCommand() *cli.Command {
	var params cardParams

	return &cli.Command{
		Name:    "card",
		Summary: "Print this agent's discovery documents",
		Usage:   "jacs card [flags]",
		Description: `Print the discovery documents derived from the configured
identity: the agent card and the companion key set, identity
descriptor, public key document, and extension manifest. These are
the same documents "jacs serve" publishes.`,
		Examples: []cli.Example{
			{
				Description: "Print the agent card",
				Command:     "jacs card",
			},
			{
				Description: "Print the JWKS key set",
				Command:     "jacs card --document jwks",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("card", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to jacs.yaml (default: JACS_CONFIG)")
			flagSet.BoolVar(&params.Signed, "signed", false, "print the signed card variant")
			flagSet.StringVar(&params.Which, "document", "card", "document to print: card, jwks, identity, pubkey, or extension")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			documents, err := buildDocuments(cfg)
			if err != nil {
				return err
			}

			switch params.Which {
			case "card":
				if params.Signed {
					return cli.WriteJSON(documents.SignedCard)
				}
				return cli.WriteJSON(documents.Card)
			case "jwks":
				return cli.WriteJSON(documents.KeySet)
			case "identity":
				return cli.WriteJSON(documents.Identity)
			case "pubkey":
				return cli.WriteJSON(documents.PublicKey)
			case "extension":
				return cli.WriteJSON(documents.Extension)
			default:
				return fmt.Errorf("unknown document %q (valid: card, jwks, identity, pubkey, extension)", params.Which)
			}
		},
	}
}

// buildDocuments derives the discovery document set from the
// configured identity. Shared with "jacs serve".
func buildDocuments(cfg *config.Config) (*interop.Documents, error) {
	agent, err := loadAgent(cfg)
	if err != nil {
		return nil, err
	}
	return interop.Build(interop.Identity{
		AgentID:      cfg.Agent.ID,
		AgentVersion: cfg.Agent.Version,
		AgentType:    cfg.Agent.Type,
		Name:         cfg.Agent.Name,
		BaseURL:      cfg.Serve.BaseURL,
		Algorithm:    signer.AlgorithmEd25519,
		PublicKey:    agent.PublicKey(),
	})
}
