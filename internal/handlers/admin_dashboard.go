// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
)

// Dashboard returns content counts for the admin home screen.
func (h *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, 5)

	for name, count := range map[string]func() (int, error){
		"posts":     h.posts.Count,
		"companies": h.companies.Count,
		"insights":  h.insights.Count,
		"tags":      h.tags.Count,
		"images":    h.gallery.Count,
	} {
		n, err := count()
		if err != nil {
			slog.Error("dashboard count failed", "collection", name, "error", err)
			writeError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		counts[name] = n
	}

	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}
