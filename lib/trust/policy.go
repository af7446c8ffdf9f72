// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package trust

import (
	"fmt"

	"github.com/jacs-foundation/jacs/lib/schema"
)

// Policy names how much proof a remote agent must present before its
// output is acted on. Policies are ordered by strictness: open allows
// everything verified allows, and verified allows everything strict
// allows.
type Policy string

const (
	// PolicyOpen allows every agent, registered or not.
	PolicyOpen Policy = "open"

	// PolicyVerified allows only agents whose card declares the
	// provenance extension.
	PolicyVerified Policy = "verified"

	// PolicyStrict allows only agents that are registered AND present
	// in the local trust store.
	PolicyStrict Policy = "strict"
)

// InvalidPolicyError reports an unrecognized policy name. Unlike
// trust-lookup failures this is fatal: a bad policy is a caller bug,
// never silently defaulted.
type InvalidPolicyError struct {
	Policy string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("trust: invalid policy %q (valid: open, verified, strict)", e.Policy)
}

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case PolicyOpen, PolicyVerified, PolicyStrict:
		return Policy(name), nil
	default:
		return "", &InvalidPolicyError{Policy: name}
	}
}

// Level is the classification assessment assigns to a remote agent.
type Level int

const (
	// LevelUntrusted is the floor: the card does not declare the
	// provenance extension.
	LevelUntrusted Level = iota

	// LevelRegistered means the card declares the provenance
	// extension.
	LevelRegistered

	// LevelTrusted means the agent is registered and the trust store
	// confirmed its identifier. Only reachable under PolicyStrict.
	LevelTrusted
)

// String returns the wire name of a trust level.
func (l Level) String() string {
	switch l {
	case LevelUntrusted:
		return "untrusted"
	case LevelRegistered:
		return "registered"
	case LevelTrusted:
		return "trusted"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// MarshalText implements encoding.TextMarshaler so levels serialize
// as their wire names in JSON results.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Lookup reports whether an agent identifier is in the trust store.
// Implementations must be safe for concurrent use; errors are
// swallowed by assessment (an unreachable store degrades to "not
// trusted", it never crashes the caller).
type Lookup func(agentID string) (bool, error)

// Assessment is the result of evaluating a policy against a card.
// Derived, never persisted.
type Assessment struct {
	// Registered reports whether the card declares the provenance
	// extension.
	Registered bool `json:"jacsRegistered"`

	// Level is the computed trust level.
	Level Level `json:"trustLevel"`

	// Allowed is the policy decision.
	Allowed bool `json:"allowed"`

	// Card echoes the assessed card for callers that forward the
	// assessment.
	Card *schema.AgentCard `json:"card,omitempty"`
}

// Assess classifies a remote agent card under a policy.
//
// The base level is registered when the card declares the provenance
// extension, untrusted otherwise. Under PolicyStrict a registered
// agent whose identifier the lookup confirms is upgraded to trusted.
// A missing identifier or a failing lookup leaves the level where it
// was: the lookup is an upgrade path, never a veto.
//
// Decision per policy: open always allows; verified allows registered
// agents; strict allows only trusted agents — so strict with no
// lookup supplied never allows anyone.
func Assess(card *schema.AgentCard, policy Policy, lookup Lookup) (*Assessment, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("trust: agent card is required")
	}

	assessment := &Assessment{
		Registered: card.HasExtension(schema.ExtensionURI),
		Card:       card,
	}
	if assessment.Registered {
		assessment.Level = LevelRegistered
	}

	if policy == PolicyStrict && assessment.Registered && lookup != nil {
		if agentID := card.AgentID(); agentID != "" {
			trusted, err := lookup(agentID)
			if err == nil && trusted {
				assessment.Level = LevelTrusted
			}
		}
	}

	switch policy {
	case PolicyOpen:
		assessment.Allowed = true
	case PolicyVerified:
		assessment.Allowed = assessment.Registered
	case PolicyStrict:
		assessment.Allowed = assessment.Level == LevelTrusted
	}
	return assessment, nil
}
