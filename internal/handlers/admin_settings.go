// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// GetSettings returns all site settings as a flat key-value map.
func (h *Admin) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All()
	if err != nil {
		slog.Error("settings load failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSettings upserts the submitted keys; keys not present are left alone.
func (h *Admin) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req) == 0 {
		writeError(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.settings.SetMany(req); err != nil {
		slog.Error("settings update failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	settings, err := h.settings.All()
	if err != nil {
		slog.Error("settings load failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
