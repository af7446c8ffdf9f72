// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"errors"
	"testing"

	"github.com/jacs-foundation/jacs/lib/schema"
	"github.com/jacs-foundation/jacs/lib/signer"
)

// newTestVerifier creates a ChainVerifier that checks signatures with
// the given agent's key.
func newTestVerifier(t *testing.T, agent *signer.Agent) *ChainVerifier {
	t.Helper()
	verifier, err := NewChainVerifier(agent)
	if err != nil {
		t.Fatalf("NewChainVerifier: %v", err)
	}
	return verifier
}

func TestVerifyChainRoundTrip(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	envelope, err := wrapper.Wrap(map[string]string{"goal": "summarize"}, "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	result, err := verifier.VerifyChain(envelope)
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}

	if !result.Valid {
		t.Errorf("Valid = false, error: %s", result.Error)
	}
	if !result.ChainValid() {
		t.Error("ChainValid = false for a freshly wrapped envelope")
	}
	if result.SignerID != "agent-alpha" {
		t.Errorf("SignerID = %q, want %q", result.SignerID, "agent-alpha")
	}
	if result.ArtifactType != "task" {
		t.Errorf("ArtifactType = %q, want %q", result.ArtifactType, "task")
	}
	if string(result.OriginalArtifact) != string(envelope.Artifact) {
		t.Error("OriginalArtifact does not match the wrapped payload")
	}
}

// A zero-parent envelope is valid on its own signature, and the
// parent-derived result fields stay absent.
func TestVerifyChainZeroParents(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	envelope, err := wrapper.Wrap("payload", "message")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	result, err := verifier.VerifyChain(envelope)
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}

	if !result.Valid {
		t.Errorf("Valid = false, error: %s", result.Error)
	}
	if result.ParentsValid != nil {
		t.Error("ParentsValid should be nil for a zero-parent envelope")
	}
	if result.ParentCount != 0 {
		t.Errorf("ParentCount = %d, want 0", result.ParentCount)
	}
	if result.ParentResults != nil {
		t.Error("ParentResults should be absent for a zero-parent envelope")
	}
}

func TestVerifyChainDetectsTampering(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	envelope, err := wrapper.Wrap(map[string]string{"amount": "10"}, "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	t.Run("artifact mutated", func(t *testing.T) {
		tampered := *envelope
		tampered.Artifact = []byte(`{"amount":"1000000"}`)
		result, err := verifier.VerifyChain(&tampered)
		if err != nil {
			t.Fatalf("VerifyChain: %v", err)
		}
		if result.Valid {
			t.Error("tampered artifact verified")
		}
		if result.Error == "" {
			t.Error("tampered artifact produced no error message")
		}
	})

	t.Run("artifact and digest mutated", func(t *testing.T) {
		tampered := *envelope
		tampered.Artifact = []byte(`{"amount":"1000000"}`)
		tampered.ArtifactDigest = schema.ArtifactDigest(tampered.Artifact)
		result, err := verifier.VerifyChain(&tampered)
		if err != nil {
			t.Fatalf("VerifyChain: %v", err)
		}
		if result.Valid {
			t.Error("rehashed tampered artifact verified")
		}
	})
}

// Chain validity is the conjunction over all ancestors: one broken
// signature anywhere poisons ParentsValid at the root, while the
// root's own Valid stays independent.
func TestVerifyChainConjunction(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	grandparent, err := wrapper.Wrap("origin", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	parent, err := wrapper.Wrap("middle", "workflow-step", grandparent)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	root, err := wrapper.Wrap("latest", "workflow-step", parent)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	// Sound chain first.
	result, err := verifier.VerifyChain(root)
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if !result.ChainValid() {
		t.Fatal("sound three-link chain did not verify")
	}
	if result.ParentCount != 1 {
		t.Errorf("ParentCount = %d, want 1", result.ParentCount)
	}

	// Break the grandparent's payload. Root and parent signatures are
	// untouched, so their own Valid flags hold while the chain fails.
	grandparent.Artifact = []byte(`"forged"`)
	result, err = verifier.VerifyChain(root)
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if !result.Valid {
		t.Error("root's own signature should still verify")
	}
	if result.ParentsValid == nil || *result.ParentsValid {
		t.Error("ParentsValid should be false with a broken grandparent")
	}
	if result.ChainValid() {
		t.Error("ChainValid should be false with a broken grandparent")
	}
	if len(result.ParentResults) != 1 {
		t.Fatalf("got %d parent results, want 1", len(result.ParentResults))
	}
	record := result.ParentResults[0]
	if !record.Valid {
		t.Error("parent's own signature should still verify")
	}
	if record.ParentsValid {
		t.Error("parent's ancestry should be reported broken")
	}
}

// Two branches referencing the same ancestor form a diamond, which is
// legal ancestry, not a cycle.
func TestVerifyChainDiamondAncestry(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	shared, err := wrapper.Wrap("origin", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	left, err := wrapper.Wrap("left", "workflow-step", shared)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	right, err := wrapper.Wrap("right", "workflow-step", shared)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	merge, err := wrapper.Wrap("merge", "workflow-step", left, right)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	result, err := verifier.VerifyChain(merge)
	if err != nil {
		t.Fatalf("VerifyChain on diamond ancestry: %v", err)
	}
	if !result.ChainValid() {
		t.Error("diamond ancestry did not verify")
	}
	if result.ParentCount != 2 {
		t.Errorf("ParentCount = %d, want 2", result.ParentCount)
	}
}

// A hostile sender can close a loop in jacsParentSignatures.
// Verification must terminate and surface a CycleError.
func TestVerifyChainDetectsCycle(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	first, err := wrapper.Wrap("a", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	second, err := wrapper.Wrap("b", "task", first)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	// Close the loop after signing, as an attacker would.
	first.JacsParentSignatures = []*schema.Envelope{second}

	result, err := verifier.VerifyChain(second)
	if err == nil {
		t.Fatal("VerifyChain accepted a cyclic chain")
	}
	if result != nil {
		t.Error("VerifyChain returned a result alongside a cycle error")
	}
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("error is %T, want *CycleError", err)
	}
	if cycle.EnvelopeID != second.JacsID {
		t.Errorf("cycle closed at %s, want %s", cycle.EnvelopeID, second.JacsID)
	}
}

func TestVerifyChainSelfReference(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	envelope, err := wrapper.Wrap("a", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	envelope.JacsParentSignatures = []*schema.Envelope{envelope}

	var cycle *CycleError
	if _, err := verifier.VerifyChain(envelope); !errors.As(err, &cycle) {
		t.Fatalf("self-referencing envelope: got %v, want *CycleError", err)
	}
}

// The visited set is scoped per call: a cycle aborts one VerifyChain
// without contaminating later calls on sound chains.
func TestVerifyChainCallsAreIndependent(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	cyclic, err := wrapper.Wrap("a", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	cyclic.JacsParentSignatures = []*schema.Envelope{cyclic}
	if _, err := verifier.VerifyChain(cyclic); err == nil {
		t.Fatal("cyclic chain was accepted")
	}

	sound, err := wrapper.Wrap("b", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	result, err := verifier.VerifyChain(sound)
	if err != nil {
		t.Fatalf("VerifyChain after a cycle failure: %v", err)
	}
	if !result.ChainValid() {
		t.Error("sound chain failed after an unrelated cycle failure")
	}
}

func TestVerifyChainUnsignedParentRecorded(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	unsigned := &schema.Envelope{
		JacsID:   "unsigned-parent",
		JacsType: "a2a-task",
	}
	root, err := wrapper.Wrap("payload", "workflow-step", unsigned)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	result, err := verifier.VerifyChain(root)
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if !result.Valid {
		t.Error("root's own signature should verify")
	}
	if result.ParentsValid == nil || *result.ParentsValid {
		t.Error("ParentsValid should be false with an unsigned parent")
	}
	if len(result.ParentResults) != 1 {
		t.Fatalf("got %d parent results, want 1", len(result.ParentResults))
	}
	if result.ParentResults[0].Valid {
		t.Error("unsigned parent reported valid")
	}
	if result.ParentResults[0].Error == "" {
		t.Error("unsigned parent produced no error message")
	}
}

func TestVerifyChainNilParentRecorded(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	root, err := wrapper.Wrap("payload", "task", nil)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	result, err := verifier.VerifyChain(root)
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if result.ParentsValid == nil || *result.ParentsValid {
		t.Error("ParentsValid should be false with a nil parent")
	}
}

func TestVerifyChainMissingID(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	verifier := newTestVerifier(t, agent)

	result, err := verifier.VerifyChain(&schema.Envelope{JacsType: "a2a-task"})
	if err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
	if result.Valid {
		t.Error("id-less envelope reported valid")
	}
	if result.Error == "" {
		t.Error("id-less envelope produced no error message")
	}
}

func TestVerifyChainRejectsNilEnvelope(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	verifier := newTestVerifier(t, agent)

	if _, err := verifier.VerifyChain(nil); err == nil {
		t.Error("VerifyChain accepted a nil envelope")
	}
}

func TestNewChainVerifierRequiresVerifier(t *testing.T) {
	if _, err := NewChainVerifier(nil); err == nil {
		t.Error("NewChainVerifier accepted a nil SignatureVerifier")
	}
}
