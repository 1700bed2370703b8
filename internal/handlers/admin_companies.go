// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"foliopress/internal/middleware"
	"foliopress/internal/models"
	"foliopress/internal/slug"
	"foliopress/internal/store"
	"foliopress/internal/uploader"
)

// ListCompanies returns all portfolio companies for the admin UI.
func (h *Admin) ListCompanies(w http.ResponseWriter, r *http.Request) {
	f := parseListFilter(r)
	items, total, err := h.companies.List(f)
	if err != nil {
		slog.Error("admin company list failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, f, total))
}

// GetCompany returns one company by ID with its gallery.
func (h *Admin) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}
	company, err := h.companies.FindByID(id)
	if err != nil {
		slog.Error("admin company lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if company == nil {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}

	gallery, err := h.gallery.ListByOwner(models.OwnerCompany, company.ID)
	if err != nil {
		slog.Error("gallery load failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record":  company,
		"gallery": gallery,
	})
}

// CreateCompany handles the editor's multipart submit for a new company.
func (h *Admin) CreateCompany(w http.ResponseWriter, r *http.Request) {
	h.submitCompany(w, r, nil)
}

// UpdateCompany handles the editor's multipart submit for an edit.
func (h *Admin) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}
	existing, err := h.companies.FindByID(id)
	if err != nil {
		slog.Error("admin company lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}
	h.submitCompany(w, r, existing)
}

// submitCompany runs the editor flow for companies. The chosen featured
// image doubles as the company logo.
func (h *Admin) submitCompany(w http.ResponseWriter, r *http.Request, existing *models.Company) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	sector := r.FormValue("sector")
	status := r.FormValue("status")
	description := r.FormValue("description")

	fieldErrs := validateCompany(name, sector, status, description)
	if len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}

	assets, err := parseAssets(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if hasNewAssets(assets) && h.storage == nil {
		writeError(w, "image storage not configured", http.StatusServiceUnavailable)
		return
	}

	var warnings []string
	if hasNewAssets(assets) {
		coord := uploader.NewCoordinator(h.storage, h.storage.PublicBucket())
		for _, fn := range coord.Process(r.Context(), assets, "companies") {
			warnings = append(warnings, "upload failed: "+fn)
		}
	}
	logoURL := uploader.ResolveFeatured(assets, r.FormValue("featured_local_id"))

	c := &models.Company{
		Name:        name,
		Sector:      sector,
		Status:      models.CompanyStatus(status),
		Description: description,
		Featured:    r.FormValue("featured") == "true",
	}
	if logoURL != "" {
		c.LogoURL = &logoURL
	}
	if site := strings.TrimSpace(r.FormValue("website_url")); site != "" {
		c.WebsiteURL = &site
	}
	if s := r.FormValue("slug"); s != "" {
		c.Slug = slug.Generate(s)
	} else {
		c.Slug = slug.Generate(name)
	}

	var saved *models.Company
	if existing == nil {
		sess := middleware.SessionFromCtx(r.Context())
		c.AuthorID = sess.UserID
		saved, err = h.companies.Create(c)
	} else {
		c.ID = existing.ID
		c.AuthorID = existing.AuthorID
		saved, err = h.companies.Update(c)
	}
	if errors.Is(err, store.ErrConflict) {
		writeError(w, "a company with this slug already exists", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("company save failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if saved == nil {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}

	gallery, err := h.storeGallery(w, r, models.OwnerCompany, saved.ID, assets)
	if err != nil {
		return
	}

	h.invalidate(r.Context(), "companies")

	code := http.StatusOK
	if existing == nil {
		code = http.StatusCreated
	}
	writeJSON(w, code, map[string]any{
		"record":   saved,
		"gallery":  gallery,
		"warnings": warnings,
	})
}

// DeleteCompany removes one company, its gallery, and its objects.
func (h *Admin) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}
	company, err := h.companies.FindByID(id)
	if err != nil {
		slog.Error("admin company lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if company == nil {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}

	if err := h.companies.Delete(id); err != nil {
		slog.Error("company delete failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.deleteOwnerGallery(r.Context(), models.OwnerCompany, id)

	h.invalidate(r.Context(), "companies")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
