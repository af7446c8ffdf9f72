// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/jacs-foundation/jacs/lib/schema"
)

func TestBundleRoundTrip(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)
	verifier := newTestVerifier(t, agent)

	parent, err := wrapper.Wrap("origin", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	child, err := wrapper.Wrap(map[string]string{"step": "review"}, "workflow-step", parent)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			bundle, err := Export([]*schema.Envelope{parent, child}, tag)
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if !bytes.HasPrefix(bundle, []byte(bundleMagic)) {
				t.Error("bundle does not start with the magic bytes")
			}

			envelopes, err := Import(bundle)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if len(envelopes) != 2 {
				t.Fatalf("imported %d envelopes, want 2", len(envelopes))
			}
			if envelopes[0].JacsID != parent.JacsID || envelopes[1].JacsID != child.JacsID {
				t.Error("envelope order or ids changed across the round trip")
			}

			// Signatures must survive serialization: the imported
			// chain verifies exactly like the original.
			result, err := verifier.VerifyChain(envelopes[1])
			if err != nil {
				t.Fatalf("VerifyChain on imported envelope: %v", err)
			}
			if !result.ChainValid() {
				t.Error("imported chain did not verify")
			}
		})
	}
}

// Random bytes do not compress. Export must fall back to storing the
// payload uncompressed rather than failing or growing the bundle.
func TestExportIncompressibleFallback(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)

	noise := make([]byte, 4096)
	if _, err := rand.Read(noise); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	envelope, err := wrapper.Wrap(map[string][]byte{"blob": noise}, "document")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	bundle, err := Export([]*schema.Envelope{envelope}, CompressionLZ4)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := CompressionTag(bundle[5]); got != CompressionNone {
		t.Errorf("header tag = %s, want %s fallback", got, CompressionNone)
	}
	if _, err := Import(bundle); err != nil {
		t.Errorf("Import of fallback bundle: %v", err)
	}
}

func TestExportRejectsEmptyBundle(t *testing.T) {
	if _, err := Export(nil, CompressionZstd); err == nil {
		t.Error("Export accepted an empty envelope list")
	}
}

func TestImportRejectsMalformedBundles(t *testing.T) {
	agent := newTestAgent(t, "agent-alpha")
	wrapper := newTestWrapper(t, agent, nil)

	envelope, err := wrapper.Wrap("payload", "task")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	valid, err := Export([]*schema.Envelope{envelope}, CompressionZstd)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{
			name:   "truncated header",
			mutate: func(b []byte) []byte { return b[:headerSize-1] },
		},
		{
			name: "bad magic",
			mutate: func(b []byte) []byte {
				b[0] = 'X'
				return b
			},
		},
		{
			name: "unsupported version",
			mutate: func(b []byte) []byte {
				b[4] = 99
				return b
			},
		},
		{
			name: "unknown compression tag",
			mutate: func(b []byte) []byte {
				b[5] = 42
				return b
			},
		},
		{
			name: "corrupted payload",
			mutate: func(b []byte) []byte {
				b[headerSize] ^= 0xFF
				return b
			},
		},
		{
			name: "declared length mismatch",
			mutate: func(b []byte) []byte {
				b[9] ^= 0xFF
				return b
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bundle := test.mutate(bytes.Clone(valid))
			if _, err := Import(bundle); !errors.Is(err, ErrBadBundle) {
				t.Errorf("Import = %v, want ErrBadBundle", err)
			}
		})
	}
}

func TestParseCompressionTag(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompressionTag(tag.String())
		if err != nil {
			t.Errorf("ParseCompressionTag(%q): %v", tag.String(), err)
		}
		if parsed != tag {
			t.Errorf("ParseCompressionTag(%q) = %d, want %d", tag.String(), parsed, tag)
		}
	}
	if _, err := ParseCompressionTag("gzip"); err == nil {
		t.Error("ParseCompressionTag accepted an unknown name")
	}
	if !strings.HasPrefix(CompressionTag(42).String(), "unknown") {
		t.Errorf("CompressionTag(42).String() = %q", CompressionTag(42).String())
	}
}
