// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Handler serves the five discovery documents. Every response carries
// permissive CORS headers (browsers fetch cards cross-origin during
// agent discovery) and a one-hour public cache policy.
type Handler struct {
	documents *Documents
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewHandler creates a Handler serving the given documents. Pass a
// nil logger to use slog.Default().
func NewHandler(documents *Documents, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	handler := &Handler{documents: documents, logger: logger, mux: http.NewServeMux()}

	handler.mux.HandleFunc(CardPath, handler.serveCard)
	handler.mux.HandleFunc(KeySetPath, handler.serveDocument(documents.KeySet))
	handler.mux.HandleFunc(IdentityPath, handler.serveDocument(documents.Identity))
	handler.mux.HandleFunc(PublicKeyPath, handler.serveDocument(documents.PublicKey))
	handler.mux.HandleFunc(ExtensionPath, handler.serveDocument(documents.Extension))

	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// serveCard publishes the capability descriptor. ?signed=true returns
// the signature-bearing variant.
func (h *Handler) serveCard(w http.ResponseWriter, r *http.Request) {
	document := any(h.documents.Card)
	if r.URL.Query().Get("signed") == "true" {
		document = h.documents.SignedCard
	}
	h.respond(w, r, document)
}

func (h *Handler) serveDocument(document any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, document)
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, document any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(document); err != nil {
		h.logger.Error("encoding discovery document", "path", r.URL.Path, "error", err)
	}
}
