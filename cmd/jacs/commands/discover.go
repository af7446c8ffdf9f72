// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/discovery"
	"github.com/jacs-foundation/jacs/lib/trust"
)

type discoverParams struct {
	Config  string
	Assess  bool
	Policy  string
	Store   string
	Timeout time.Duration
}

func discoverCommand() *cli.Command {
	var params discoverParams

	return &cli.Command{
		Name:    "discover",
		Summary: "Fetch a remote agent's card",
		Usage:   "jacs discover <base-url> [flags]",
		Description: `Fetch the agent card published at
<base-url>/.well-known/agent-card.json and print it.

With --assess the card is also evaluated against a trust policy, and
the assessment (registration status, trust level, whether the agent
is allowed to interact) is printed instead of the raw card. Under the
strict policy, registered agents are looked up in the local trust
store to decide whether they are trusted.`,
		Examples: []cli.Example{
			{
				Description: "Fetch a card",
				Command:     "jacs discover https://agent.example.com",
			},
			{
				Description: "Assess under the strict policy",
				Command:     "jacs discover https://agent.example.com --assess --policy strict",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("discover", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to jacs.yaml (default: JACS_CONFIG)")
			flagSet.BoolVar(&params.Assess, "assess", false, "evaluate the card against a trust policy")
			flagSet.StringVar(&params.Policy, "policy", "", "trust policy: open, verified, or strict (default: configured policy)")
			flagSet.StringVar(&params.Store, "store", "", "trust store path (default: configured store)")
			flagSet.DurationVar(&params.Timeout, "timeout", 0, "request timeout (default: configured timeout)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one base URL is required")
			}
			baseURL := args[0]

			policyName := params.Policy
			storePath := params.Store
			timeout := params.Timeout
			if cfg, err := loadConfig(params.Config); err == nil {
				if policyName == "" {
					policyName = cfg.Trust.Policy
				}
				if storePath == "" {
					storePath = cfg.Trust.StorePath
				}
				if timeout == 0 {
					timeout = cfg.Discovery.Timeout
				}
			}
			if policyName == "" {
				policyName = string(trust.PolicyVerified)
			}

			client := discovery.NewClient(discovery.ClientConfig{Timeout: timeout})

			if !params.Assess {
				card, err := client.Discover(context.Background(), baseURL)
				if err != nil {
					return err
				}
				return cli.WriteJSON(card)
			}

			policy, err := trust.ParsePolicy(policyName)
			if err != nil {
				return err
			}
			var lookup trust.Lookup
			if storePath != "" {
				store, err := trust.NewFileStore(storePath)
				if err != nil {
					return err
				}
				lookup = store.Lookup()
			}
			assessment, err := client.DiscoverAndAssess(context.Background(), baseURL, policy, lookup)
			if err != nil {
				return err
			}
			return cli.WriteJSON(assessment)
		},
	}
}
