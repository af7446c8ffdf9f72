// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package trust

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/jacs-foundation/jacs/lib/schema"
)

// Store is the persisted allow-list of agent identifiers consulted by
// strict-policy assessment.
type Store interface {
	// IsTrusted reports whether the agent identifier is in the store.
	IsTrusted(agentID string) (bool, error)

	// AddTrusted records an agent. The document is the agent's JSON
	// description; it must carry an identifier under "jacsId" or
	// "id".
	AddTrusted(agentDocument []byte) (string, error)

	// ListTrusted returns all trusted agent identifiers, sorted.
	ListTrusted() ([]string, error)

	// RemoveTrusted removes an agent. Removing an unknown identifier
	// is an error.
	RemoveTrusted(agentID string) error
}

// trustedAgent is one entry in the store file.
type trustedAgent struct {
	AgentID  string          `json:"agentId"`
	Document json.RawMessage `json:"document,omitempty"`
}

// storeFile is the on-disk shape: a single JSON document so the file
// can be inspected and hand-edited. Comments and trailing commas are
// tolerated on read.
type storeFile struct {
	Agents []trustedAgent `json:"trustedAgents"`
}

// FileStore is a Store backed by one JSON file with an in-memory
// index. Safe for concurrent use; every mutation rewrites the file
// atomically (temp file plus rename).
type FileStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]trustedAgent
}

// NewFileStore opens the store at path, creating parent directories
// as needed. A missing file is an empty store; it is created on the
// first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("trust: store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("trust: creating store directory: %w", err)
	}

	store := &FileStore{
		path:    path,
		entries: make(map[string]trustedAgent),
	}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// IsTrusted implements Store.
func (s *FileStore) IsTrusted(agentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.entries[agentID]
	return exists, nil
}

// AddTrusted implements Store. The extracted identifier is returned.
// Re-adding a known agent replaces its stored document.
func (s *FileStore) AddTrusted(agentDocument []byte) (string, error) {
	agentID, err := extractAgentID(agentDocument)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.entries[agentID]
	s.entries[agentID] = trustedAgent{AgentID: agentID, Document: agentDocument}
	if err := s.writeFile(); err != nil {
		// Roll back the index so memory and disk stay consistent.
		if existed {
			s.entries[agentID] = previous
		} else {
			delete(s.entries, agentID)
		}
		return "", err
	}
	return agentID, nil
}

// ListTrusted implements Store.
func (s *FileStore) ListTrusted() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.entries))
	for agentID := range s.entries {
		ids = append(ids, agentID)
	}
	sort.Strings(ids)
	return ids, nil
}

// RemoveTrusted implements Store.
func (s *FileStore) RemoveTrusted(agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.entries[agentID]
	if !exists {
		return fmt.Errorf("trust: agent %q is not in the store", agentID)
	}
	delete(s.entries, agentID)
	if err := s.writeFile(); err != nil {
		s.entries[agentID] = previous
		return err
	}
	return nil
}

// Lookup adapts the store to the assessment Lookup signature.
func (s *FileStore) Lookup() Lookup {
	return s.IsTrusted
}

// load reads the store file into the index. The file is parsed
// through a JSONC pass first so operators can keep comments in it.
func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("trust: reading store %s: %w", s.path, err)
	}

	var file storeFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return fmt.Errorf("trust: decoding store %s: %w", s.path, err)
	}
	for _, agent := range file.Agents {
		if agent.AgentID == "" {
			continue
		}
		s.entries[agent.AgentID] = agent
	}
	return nil
}

// writeFile atomically rewrites the store file from the index.
// Callers hold the write lock.
func (s *FileStore) writeFile() error {
	file := storeFile{Agents: make([]trustedAgent, 0, len(s.entries))}
	for _, agent := range s.entries {
		file.Agents = append(file.Agents, agent)
	}
	sort.Slice(file.Agents, func(i, j int) bool {
		return file.Agents[i].AgentID < file.Agents[j].AgentID
	})

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("trust: encoding store: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), "trust-*.json")
	if err != nil {
		return fmt.Errorf("trust: creating temp store file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("trust: writing store data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("trust: closing temp store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("trust: renaming store file to %s: %w", s.path, err)
	}

	success = true
	return nil
}

// extractAgentID pulls the agent identifier out of an agent JSON
// document. Identity descriptors carry it top-level ("jacsId", or
// "id" in legacy documents); agent cards carry it in their metadata
// map, so the card a peer publishes can be fed to AddTrusted as-is.
func extractAgentID(agentDocument []byte) (string, error) {
	var fields struct {
		JacsID   string         `json:"jacsId"`
		ID       string         `json:"id"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(agentDocument), &fields); err != nil {
		return "", fmt.Errorf("trust: decoding agent document: %w", err)
	}
	if fields.JacsID != "" {
		return fields.JacsID, nil
	}
	if fields.ID != "" {
		return fields.ID, nil
	}
	for _, key := range []string{schema.MetadataAgentIDKey, schema.MetadataAgentIDKeyLegacy} {
		if value, ok := fields.Metadata[key].(string); ok && value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("trust: agent document carries no jacsId, id, or metadata agent id")
}
