// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"foliopress/internal/slug"
	"foliopress/internal/store"
)

// ListTags returns every tag with usage counts.
func (h *Admin) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List()
	if err != nil {
		slog.Error("tag list failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tags})
}

// CreateTag creates a standalone tag ahead of its first use.
func (h *Admin) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if msg := validateTagName(name); msg != "" {
		writeFieldErrors(w, map[string]string{"name": msg})
		return
	}

	tag, err := h.tags.Create(name, slug.Generate(name))
	if errors.Is(err, store.ErrConflict) {
		writeError(w, "a tag with this name already exists", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("tag create failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.invalidate(r.Context(), "tags")
	writeJSON(w, http.StatusCreated, tag)
}

// DeleteTag removes a tag and detaches it from all insights.
func (h *Admin) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "tag not found", http.StatusNotFound)
		return
	}

	if err := h.tags.Delete(id); err != nil {
		slog.Error("tag delete failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.invalidate(r.Context(), "tags", "insights")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
