// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/trust"
)

func trustCommand() *cli.Command {
	return &cli.Command{
		Name:    "trust",
		Summary: "Manage the local trust store",
		Usage:   "jacs trust <subcommand> [flags]",
		Description: `Manage the file-backed store of explicitly trusted agents. Under
the strict trust policy, only agents present in this store are
classified as trusted.`,
		Subcommands: []*cli.Command{
			trustAddCommand(),
			trustListCommand(),
			trustRemoveCommand(),
			trustCheckCommand(),
		},
	}
}

// trustStoreFlags is the shared --config/--store pair every trust
// subcommand takes.
type trustStoreParams struct {
	Config string
	Store  string
}

func (p *trustStoreParams) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&p.Config, "config", "", "path to jacs.yaml (default: JACS_CONFIG)")
	flagSet.StringVar(&p.Store, "store", "", "trust store path (default: configured store)")
}

func (p *trustStoreParams) open() (*trust.FileStore, error) {
	path := p.Store
	if path == "" {
		cfg, err := loadConfig(p.Config)
		if err != nil {
			return nil, fmt.Errorf("resolving trust store path: %w", err)
		}
		path = cfg.Trust.StorePath
	}
	return trust.NewFileStore(path)
}

func trustAddCommand() *cli.Command {
	var params trustStoreParams

	return &cli.Command{
		Name:    "add",
		Summary: "Add an agent document to the trust store",
		Usage:   "jacs trust add [file] [flags]",
		Description: `Add an agent document (read from a file or stdin) to the trust
store. The document must carry the agent's identifier in a jacsId or
id field.`,
		Examples: []cli.Example{
			{
				Description: "Trust an agent from its published card",
				Command:     "jacs trust add peer-card.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
			params.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			document, err := readInput(args)
			if err != nil {
				return err
			}
			store, err := params.open()
			if err != nil {
				return err
			}
			agentID, err := store.AddTrusted(document)
			if err != nil {
				return err
			}
			fmt.Printf("trusted %s\n", agentID)
			return nil
		},
	}
}

func trustListCommand() *cli.Command {
	var params trustStoreParams

	return &cli.Command{
		Name:    "list",
		Summary: "List trusted agent identifiers",
		Usage:   "jacs trust list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			params.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			store, err := params.open()
			if err != nil {
				return err
			}
			agentIDs, err := store.ListTrusted()
			if err != nil {
				return err
			}
			for _, agentID := range agentIDs {
				fmt.Println(agentID)
			}
			return nil
		},
	}
}

func trustRemoveCommand() *cli.Command {
	var params trustStoreParams

	return &cli.Command{
		Name:    "remove",
		Summary: "Remove an agent from the trust store",
		Usage:   "jacs trust remove <agent-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("remove", pflag.ContinueOnError)
			params.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one agent identifier is required")
			}
			store, err := params.open()
			if err != nil {
				return err
			}
			if err := store.RemoveTrusted(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}
}

func trustCheckCommand() *cli.Command {
	var params trustStoreParams

	return &cli.Command{
		Name:    "check",
		Summary: "Check whether an agent is trusted",
		Usage:   "jacs trust check <agent-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			params.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one agent identifier is required")
			}
			store, err := params.open()
			if err != nil {
				return err
			}
			trusted, err := store.IsTrusted(args[0])
			if err != nil {
				return err
			}
			if !trusted {
				return fmt.Errorf("%s is not trusted", args[0])
			}
			fmt.Printf("%s is trusted\n", args[0])
			return nil
		},
	}
}
