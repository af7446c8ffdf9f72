// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jacs-foundation/jacs/lib/interop"
)

func TestServerLifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	public, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	documents, err := interop.Build(interop.Identity{
		AgentID:   "agent-serve-test",
		Name:      "serve-test",
		Algorithm: "ring-Ed25519",
		PublicKey: public,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	server := NewServer(ServerConfig{
		Address:         "127.0.0.1:0", // OS-assigned port
		Handler:         interop.NewHandler(documents, logger),
		ShutdownTimeout: 2 * time.Second,
		Logger:          logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stand-in for t.Context(), which needs Go 1.24+.
	testCtx, testCancel := context.WithCancel(context.Background())
	t.Cleanup(testCancel)

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()

	// Wait for the server to be ready. The test context is cancelled
	// when the test deadline passes, so no wall-clock timeout needed.
	select {
	case <-server.Ready():
	case <-testCtx.Done():
		t.Fatal("server did not become ready before test deadline")
	}

	// The card must be reachable at its well-known path.
	address := server.Addr().String()
	response, err := http.Get("http://" + address + interop.CardPath)
	if err != nil {
		t.Fatalf("GET %s: %v", interop.CardPath, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Errorf("GET %s status = %d, want 200", interop.CardPath, response.StatusCode)
	}
	var card struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(response.Body).Decode(&card); err != nil {
		t.Fatalf("decoding card: %v", err)
	}
	if card.Name != "serve-test" {
		t.Errorf("card name = %q, want %q", card.Name, "serve-test")
	}

	// Cancel the context to trigger shutdown.
	cancel()

	select {
	case err := <-serveDone:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-testCtx.Done():
		t.Fatal("server did not shut down before test deadline")
	}
}

func TestServerPanicsOnMissingConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	tests := []struct {
		name   string
		config ServerConfig
	}{
		{
			name:   "missing_address",
			config: ServerConfig{Handler: handler, Logger: logger},
		},
		{
			name:   "missing_handler",
			config: ServerConfig{Address: ":0", Logger: logger},
		},
		{
			name:   "missing_logger",
			config: ServerConfig{Address: ":0", Handler: handler},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("NewServer did not panic")
				}
			}()
			NewServer(tt.config)
		})
	}
}
