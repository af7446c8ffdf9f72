// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jacs-foundation/jacs/lib/schema"
)

// CycleError reports a cycle in an envelope's ancestry graph. Cycles
// are always malicious or malformed input, so — unlike signature
// failures — they abort the whole verification call rather than being
// recorded in the result tree.
type CycleError struct {
	// EnvelopeID is the id at which the cycle closed.
	EnvelopeID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("provenance: cycle detected in chain of custody at envelope %s", e.EnvelopeID)
}

// ParentResult records the verification outcome of one parent
// envelope within a chain.
type ParentResult struct {
	// Index is the parent's position in jacsParentSignatures.
	Index int `json:"index"`

	// ArtifactID is the parent envelope's id.
	ArtifactID string `json:"artifactId,omitempty"`

	// Valid reports whether the parent's own signature verified.
	Valid bool `json:"valid"`

	// ParentsValid reports whether the parent's entire ancestry
	// verified. True for parents with no ancestors of their own.
	ParentsValid bool `json:"parentSignaturesValid"`

	// Error carries the failure message when Valid is false.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of verifying one envelope and its ancestry.
//
// The three parent-derived fields (ParentCount, ParentResults,
// ParentsValid) are present only when the envelope has parents. The
// asymmetry is intentional: existing consumers of the serialized
// result distinguish "no parents" from "parents all valid" by field
// absence.
type Result struct {
	// Valid reports whether this envelope's own signature verified.
	// Independent of ancestor validity.
	Valid bool `json:"valid"`

	// Error carries the signature failure message when Valid is false.
	Error string `json:"error,omitempty"`

	// SignerID and SignerVersion are read directly from the
	// envelope's signature; their content is the signer's concern.
	SignerID      string `json:"signerId,omitempty"`
	SignerVersion string `json:"signerVersion,omitempty"`

	// ArtifactType is the envelope's type with the "a2a-" prefix
	// stripped.
	ArtifactType string `json:"artifactType,omitempty"`

	// Timestamp is the envelope's creation time.
	Timestamp time.Time `json:"timestamp"`

	// OriginalArtifact is the unwrapped payload.
	OriginalArtifact json.RawMessage `json:"originalArtifact,omitempty"`

	// ParentCount is len(jacsParentSignatures) when non-zero.
	ParentCount int `json:"parentSignaturesCount,omitempty"`

	// ParentResults holds one entry per parent, in order.
	ParentResults []ParentResult `json:"parentVerificationResults,omitempty"`

	// ParentsValid is the recursive conjunction over every parent's
	// valid AND parentSignaturesValid — a chain is only as good as
	// its weakest ancestor. Nil when the envelope has no parents.
	ParentsValid *bool `json:"parentSignaturesValid,omitempty"`
}

// ChainValid reports whether the envelope and its entire ancestry
// verified: the node's own signature plus, when parents exist, the
// recursive conjunction.
func (r *Result) ChainValid() bool {
	if !r.Valid {
		return false
	}
	return r.ParentsValid == nil || *r.ParentsValid
}

// ChainVerifier verifies envelopes and their ancestry graphs.
// Verification is a pure read: inputs are never mutated, and no state
// is shared between calls, so a single ChainVerifier is safe for
// concurrent use.
type ChainVerifier struct {
	verifier SignatureVerifier
}

// NewChainVerifier creates a ChainVerifier that delegates per-envelope
// signature checks to the given verifier.
func NewChainVerifier(verifier SignatureVerifier) (*ChainVerifier, error) {
	if verifier == nil {
		return nil, errors.New("provenance: SignatureVerifier is required")
	}
	return &ChainVerifier{verifier: verifier}, nil
}

// VerifyChain verifies an envelope and, recursively, every ancestor
// reachable through jacsParentSignatures.
//
// Per-envelope signature failures are recorded in the result tree
// (Valid=false with a message), never returned as errors: a partially
// broken chain still yields a full diagnostic tree. The one fatal
// condition is a cycle in the ancestry graph, which returns a
// CycleError — that indicates a hostile or malformed graph, not a
// failed signature.
func (v *ChainVerifier) VerifyChain(envelope *schema.Envelope) (*Result, error) {
	if envelope == nil {
		return nil, errors.New("provenance: envelope is required")
	}
	// The visited set is scoped to this call. Independent VerifyChain
	// calls never observe each other.
	return v.verifyNode(envelope, make(map[string]struct{}))
}

// verifyNode verifies one envelope, recursing into its parents with
// the shared visited set. The set tracks the ids on the current
// descent path: an id is added on entry and removed on unwind, so two
// sibling branches referencing the same ancestor (a diamond) are not
// mistaken for a cycle, while a true back-edge is caught across
// branches.
func (v *ChainVerifier) verifyNode(envelope *schema.Envelope, visited map[string]struct{}) (*Result, error) {
	if envelope.JacsID == "" {
		// An id-less envelope cannot participate in cycle detection,
		// so it is recorded invalid rather than traversed.
		return &Result{
			Valid:            false,
			Error:            "envelope has no id",
			ArtifactType:     envelope.ArtifactType(),
			Timestamp:        envelope.JacsVersionDate,
			OriginalArtifact: envelope.Artifact,
		}, nil
	}

	if _, seen := visited[envelope.JacsID]; seen {
		return nil, &CycleError{EnvelopeID: envelope.JacsID}
	}
	visited[envelope.JacsID] = struct{}{}
	defer delete(visited, envelope.JacsID)

	result := &Result{
		ArtifactType:     envelope.ArtifactType(),
		Timestamp:        envelope.JacsVersionDate,
		OriginalArtifact: envelope.Artifact,
	}
	if signature := envelope.JacsSignature; signature != nil {
		result.SignerID = signature.AgentID
		result.SignerVersion = signature.AgentVersion
	}

	if err := v.verifier.Verify(envelope); err != nil {
		result.Error = err.Error()
	} else {
		result.Valid = true
	}

	parents := envelope.JacsParentSignatures
	if len(parents) == 0 {
		// A zero-parent envelope is valid on its own signature alone;
		// the parent fields stay absent for wire compatibility.
		return result, nil
	}

	result.ParentCount = len(parents)
	parentsValid := true
	for index, parent := range parents {
		record := ParentResult{Index: index}

		if parent == nil {
			record.Error = "parent envelope is missing"
			parentsValid = false
			result.ParentResults = append(result.ParentResults, record)
			continue
		}
		record.ArtifactID = parent.JacsID

		parentResult, err := v.verifyNode(parent, visited)
		if err != nil {
			var cycle *CycleError
			if errors.As(err, &cycle) {
				// Fatal: propagate out of the whole call.
				return nil, err
			}
			record.Error = err.Error()
			parentsValid = false
			result.ParentResults = append(result.ParentResults, record)
			continue
		}

		record.Valid = parentResult.Valid
		record.ParentsValid = parentResult.ParentsValid == nil || *parentResult.ParentsValid
		record.Error = parentResult.Error
		if !record.Valid || !record.ParentsValid {
			parentsValid = false
		}
		result.ParentResults = append(result.ParentResults, record)
	}
	result.ParentsValid = &parentsValid

	return result, nil
}
