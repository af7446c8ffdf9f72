// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jacs-foundation/jacs/cmd/jacs/cli"
	"github.com/jacs-foundation/jacs/lib/provenance"
	"github.com/jacs-foundation/jacs/lib/schema"
)

type wrapParams struct {
	Config  string
	Type    string
	Parents []string
}

func wrapCommand() *cli.Command {
	var params wrapParams

	return &cli.Command{
		Name:    "wrap",
		Summary: "Wrap an artifact in a signed provenance envelope",
		Usage:   "jacs wrap [file] --type <artifact-type> [flags]",
		Description: `Wrap an artifact in a signed provenance envelope.

Reads the artifact from the named file, or from stdin if no file is
given (or file is "-"). The artifact must be JSON. The signed
envelope is printed to stdout.

Parent envelopes chain the new envelope to prior custody: each
--parent file is attached verbatim, so the receiver can verify the
full history.`,
		Examples: []cli.Example{
			{
				Description: "Wrap a task artifact",
				Command:     "jacs wrap task.json --type task",
			},
			{
				Description: "Chain a workflow step to its inputs",
				Command:     "jacs wrap step.json --type workflow-step --parent task.env.json --parent msg.env.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("wrap", pflag.ContinueOnError)
			flagSet.StringVar(&params.Config, "config", "", "path to jacs.yaml (default: JACS_CONFIG)")
			flagSet.StringVar(&params.Type, "type", "", "artifact type (task, message, workflow-step, ...)")
			flagSet.StringArrayVar(&params.Parents, "parent", nil, "parent envelope file (repeatable)")
			return flagSet
		},
		Run: func(args []string) error {
			if params.Type == "" {
				return fmt.Errorf("--type is required")
			}

			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			agent, err := loadAgent(cfg)
			if err != nil {
				return err
			}
			wrapper, err := provenance.NewWrapper(provenance.WrapperConfig{Signer: agent})
			if err != nil {
				return err
			}

			artifact, err := readInput(args)
			if err != nil {
				return err
			}
			if !json.Valid(artifact) {
				return fmt.Errorf("artifact is not valid JSON")
			}

			parents := make([]*schema.Envelope, 0, len(params.Parents))
			for _, path := range params.Parents {
				parent, err := readEnvelope(path)
				if err != nil {
					return err
				}
				parents = append(parents, parent)
			}

			envelope, err := wrapper.Wrap(json.RawMessage(artifact), params.Type, parents...)
			if err != nil {
				return err
			}
			return cli.WriteJSON(envelope)
		},
	}
}
