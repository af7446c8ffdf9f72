// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacs-foundation/jacs/lib/config"
	"github.com/jacs-foundation/jacs/lib/schema"
	"github.com/jacs-foundation/jacs/lib/signer"
)

// loadConfig resolves configuration for a command: an explicit
// --config path wins, otherwise JACS_CONFIG.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// loadAgent builds the signing agent from the configured identity and
// key file.
func loadAgent(cfg *config.Config) (*signer.Agent, error) {
	if cfg.Agent.ID == "" {
		return nil, fmt.Errorf("agent.id is not configured")
	}
	private, err := readPrivateKey(cfg.Agent.KeyFile)
	if err != nil {
		return nil, err
	}
	return signer.NewAgent(signer.AgentConfig{
		AgentID:      cfg.Agent.ID,
		AgentVersion: cfg.Agent.Version,
		PrivateKey:   private,
	})
}

// Key files hold the base64-encoded 64-byte Ed25519 private key on a
// single line. Written by "jacs keygen" with mode 0600.

func readPrivateKey(path string) (ed25519.PrivateKey, error) {
	if path == "" {
		return nil, fmt.Errorf("agent.key_file is not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file %s: %w", path, err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding key file %s: %w", path, err)
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("key file %s holds %d bytes, expected %d",
			path, len(decoded), ed25519.PrivateKeySize)
	}
	return ed25519.PrivateKey(decoded), nil
}

func writePrivateKey(path string, private ed25519.PrivateKey) error {
	encoded := base64.StdEncoding.EncodeToString(private) + "\n"
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("writing key file %s: %w", path, err)
	}
	return nil
}

// readPublicKey reads a verification key from a file holding either a
// bare base64 key or a published jacs-pubkey.json document.
func readPublicKey(path string) (ed25519.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key %s: %w", path, err)
	}

	encoded := strings.TrimSpace(string(data))
	if strings.HasPrefix(encoded, "{") {
		var document struct {
			PublicKey string `json:"publicKey"`
		}
		if err := json.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("decoding public key document %s: %w", path, err)
		}
		encoded = document.PublicKey
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding public key %s: %w", path, err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key %s holds %d bytes, expected %d",
			path, len(decoded), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(decoded), nil
}

// readInput reads a file argument, or stdin when the argument is
// missing or "-".
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	return data, nil
}

// writeEnvelope writes an envelope into dir as <jacsId>.json.
func writeEnvelope(dir string, envelope *schema.Envelope) error {
	if envelope.JacsID == "" {
		return fmt.Errorf("envelope has no jacsId")
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding envelope %s: %w", envelope.JacsID, err)
	}
	path := filepath.Join(dir, envelope.JacsID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing envelope %s: %w", envelope.JacsID, err)
	}
	return nil
}

// readEnvelope parses an envelope from a file or stdin.
func readEnvelope(path string) (*schema.Envelope, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}

	var envelope schema.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding envelope from %s: %w", path, err)
	}
	return &envelope, nil
}
