// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "jacs",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "verify",
				Run: func(args []string) error {
					called = "verify"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"verify"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "verify" {
		t.Errorf("dispatched to %q, want %q", called, "verify")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "jacs",
		Subcommands: []*Command{
			{
				Name: "trust",
				Subcommands: []*Command{
					{
						Name: "add",
						Run: func(args []string) error {
							called = "trust add"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"trust", "add", "agent.json"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "trust add" {
		t.Errorf("dispatched to %q, want %q", called, "trust add")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "agent.json" {
		t.Errorf("args = %v, want [agent.json]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var policy string
	var target string

	command := &Command{
		Name: "discover",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("discover", pflag.ContinueOnError)
			flagSet.StringVar(&policy, "policy", "verified", "trust policy")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--policy", "strict", "https://agent.example.com"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if policy != "strict" {
		t.Errorf("policy = %q, want %q", policy, "strict")
	}
	if target != "https://agent.example.com" {
		t.Errorf("target = %q, want %q", target, "https://agent.example.com")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "discover",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("discover", pflag.ContinueOnError)
			flagSet.Bool("assess", false, "run trust assessment")
			flagSet.String("policy", "verified", "trust policy")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--polcy"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --policy") {
		t.Errorf("error = %q, want suggestion for '--policy'", errStr)
	}
	// Suggestion should be on the same line as the error, not buried.
	if !strings.Contains(errStr, "polcy") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	// Should include a pointer to --help.
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "discover",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("discover", pflag.ContinueOnError)
			flagSet.Bool("assess", false, "run trust assessment")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "jacs",
		Subcommands: []*Command{
			{Name: "verify"},
			{Name: "discover"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"verfy"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"verify\"") {
		t.Errorf("error = %q, want suggestion for 'verify'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "jacs",
		Subcommands: []*Command{
			{Name: "verify"},
			{Name: "discover"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "jacs",
				Summary: "Agent provenance and trust",
				Subcommands: []*Command{
					{Name: "verify", Summary: "Verify an envelope chain"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "jacs",
		Subcommands: []*Command{
			{Name: "verify", Summary: "Verify an envelope chain"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "jacs",
		Description: "Agent provenance and trust toolkit.",
		Subcommands: []*Command{
			{Name: "wrap", Summary: "Wrap an artifact in a signed envelope"},
			{Name: "verify", Summary: "Verify an envelope chain"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Wrap a task artifact",
				Command:     "jacs wrap task.json --type task",
			},
			{
				Description: "Verify a chain from a file",
				Command:     "jacs verify envelope.json",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"Agent provenance and trust toolkit.",
		"Usage:",
		"jacs <command> [flags]",
		"Commands:",
		"wrap",
		"Wrap an artifact in a signed envelope",
		"verify",
		"Verify an envelope chain",
		"Examples:",
		"jacs wrap task.json --type task",
		"jacs verify envelope.json",
		"Run 'jacs <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}
