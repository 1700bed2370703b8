// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API: public content reads,
// authenticated admin CRUD with the deferred image upload flow, and
// session auth with TOTP 2FA.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"foliopress/internal/models"
	"foliopress/internal/store"
)

// detailResponse is the shape of public detail reads: the record, its
// body rendered to HTML, and the attached gallery.
type detailResponse struct {
	Record   any                   `json:"record"`
	BodyHTML string                `json:"body_html"`
	Gallery  []models.GalleryImage `json:"gallery"`
}

// pagination is the envelope metadata for list responses.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// listResponse wraps list items with server-derived pagination, so the
// client never computes page math itself.
type listResponse struct {
	Items      any        `json:"items"`
	Pagination pagination `json:"pagination"`
}

// newListResponse builds the envelope from the store's filter and total.
func newListResponse(items any, f store.ListFilter, total int) listResponse {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = store.DefaultLimit
	}
	if limit > store.MaxLimit {
		limit = store.MaxLimit
	}
	pages := (total + limit - 1) / limit
	return listResponse{
		Items: items,
		Pagination: pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}

// parseListFilter reads featured/tag/page/limit query parameters.
func parseListFilter(r *http.Request) store.ListFilter {
	q := r.URL.Query()
	var f store.ListFilter

	if v := q.Get("featured"); v != "" {
		featured := v == "true" || v == "1"
		f.Featured = &featured
	}
	f.Tag = q.Get("tag")
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = limit
	}
	return f
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes the API's JSON error shape.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFieldErrors reports validation failures per field as a 400.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}
