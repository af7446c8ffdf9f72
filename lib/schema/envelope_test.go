// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"testing"
	"time"
)

func TestArtifactType(t *testing.T) {
	tests := []struct {
		jacsType string
		want     string
	}{
		{"a2a-task", "task"},
		{"a2a-workflow-step", "workflow-step"},
		{"task", "task"}, // no prefix: returned unchanged
		{"", ""},
	}
	for _, test := range tests {
		envelope := &Envelope{JacsType: test.jacsType}
		if got := envelope.ArtifactType(); got != test.want {
			t.Errorf("ArtifactType(%q) = %q, want %q", test.jacsType, got, test.want)
		}
	}
}

func TestSignerID(t *testing.T) {
	unsigned := &Envelope{}
	if got := unsigned.SignerID(); got != "" {
		t.Errorf("unsigned SignerID = %q, want empty", got)
	}

	signed := &Envelope{JacsSignature: &Signature{AgentID: "agent-7"}}
	if got := signed.SignerID(); got != "agent-7" {
		t.Errorf("SignerID = %q, want agent-7", got)
	}
}

func TestEnvelopeJSONRoundtrip(t *testing.T) {
	parent := &Envelope{
		JacsID:          "parent-id",
		JacsType:        "a2a-task",
		JacsLevel:       LevelArtifact,
		JacsVersionDate: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		JacsSignature:   &Signature{AgentID: "upstream", Signature: "c2ln"},
	}
	envelope := &Envelope{
		JacsID:               "child-id",
		JacsVersion:          "1",
		JacsType:             "a2a-message",
		JacsLevel:            LevelArtifact,
		JacsVersionDate:      time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		JacsSignature:        &Signature{AgentID: "local", Signature: "c2ln"},
		JacsParentSignatures: []*Envelope{parent},
		Artifact:             json.RawMessage(`{"text":"hello"}`),
		ArtifactDigest:       "00ff",
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Envelope
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.JacsID != "child-id" || decoded.JacsType != "a2a-message" {
		t.Errorf("header mismatch: %+v", decoded)
	}
	if len(decoded.JacsParentSignatures) != 1 {
		t.Fatalf("parents = %d, want 1", len(decoded.JacsParentSignatures))
	}
	if decoded.JacsParentSignatures[0].JacsID != "parent-id" {
		t.Errorf("parent id = %q", decoded.JacsParentSignatures[0].JacsID)
	}
	if string(decoded.Artifact) != `{"text":"hello"}` {
		t.Errorf("artifact = %s", decoded.Artifact)
	}

	// Wire field names are protocol constants.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	for _, field := range []string{"jacsId", "jacsType", "jacsVersionDate", "jacsSignature", "jacsParentSignatures"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("serialized envelope missing field %q", field)
		}
	}
}

func TestUnsignedEnvelopeOmitsEmptyFields(t *testing.T) {
	envelope := &Envelope{
		JacsID:          "id",
		JacsType:        "a2a-task",
		JacsVersionDate: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	for _, absent := range []string{"jacsSignature", "jacsParentSignatures", "artifact", "artifactDigest"} {
		if _, ok := raw[absent]; ok {
			t.Errorf("field %q present on unsigned envelope, want omitted", absent)
		}
	}
}
