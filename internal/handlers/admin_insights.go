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
	"github.com/google/uuid"

	"foliopress/internal/middleware"
	"foliopress/internal/models"
	"foliopress/internal/slug"
	"foliopress/internal/store"
	"foliopress/internal/uploader"
)

// ListInsights returns all insights including drafts, for the admin UI.
func (h *Admin) ListInsights(w http.ResponseWriter, r *http.Request) {
	f := parseListFilter(r)
	items, total, err := h.insights.List(f, false)
	if err != nil {
		slog.Error("admin insight list failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, f, total))
}

// GetInsight returns one insight by ID with its gallery.
func (h *Admin) GetInsight(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}
	insight, err := h.insights.FindByID(id)
	if err != nil {
		slog.Error("admin insight lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if insight == nil {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}

	gallery, err := h.gallery.ListByOwner(models.OwnerInsight, insight.ID)
	if err != nil {
		slog.Error("gallery load failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record":  insight,
		"gallery": gallery,
	})
}

// CreateInsight handles the editor's multipart submit for a new insight.
func (h *Admin) CreateInsight(w http.ResponseWriter, r *http.Request) {
	h.submitInsight(w, r, nil)
}

// UpdateInsight handles the editor's multipart submit for an edit.
func (h *Admin) UpdateInsight(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}
	existing, err := h.insights.FindByID(id)
	if err != nil {
		slog.Error("admin insight lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}
	h.submitInsight(w, r, existing)
}

// submitInsight runs the deferred-upload editor flow: validate the
// fields, upload the new images, resolve the featured image, persist
// the record, rewrite the gallery and tags, and invalidate caches.
// Validation failures return before anything is written; a partial
// upload failure still persists the record, with the failed files
// omitted from the gallery and named in the response warnings.
func (h *Admin) submitInsight(w http.ResponseWriter, r *http.Request, existing *models.Insight) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	category := r.FormValue("category")
	status := r.FormValue("status")
	body := r.FormValue("body")
	excerpt := r.FormValue("excerpt")

	fieldErrs := validateContent(title, category, status, body)
	if msg, ok := validateExcerpt(excerpt); !ok {
		fieldErrs["excerpt"] = msg
	}
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
		for _, name := range coord.Process(r.Context(), assets, "insights") {
			warnings = append(warnings, "upload failed: "+name)
		}
	}
	featuredURL := uploader.ResolveFeatured(assets, r.FormValue("featured_local_id"))

	in := &models.Insight{
		Title:    title,
		Category: category,
		Status:   models.Status(status),
		Body:     body,
		Featured: r.FormValue("featured") == "true",
	}
	if excerpt = strings.TrimSpace(excerpt); excerpt != "" {
		in.Excerpt = &excerpt
	}
	if featuredURL != "" {
		in.FeaturedImageURL = &featuredURL
	}
	if s := r.FormValue("slug"); s != "" {
		in.Slug = slug.Generate(s)
	} else {
		in.Slug = slug.Generate(title)
	}

	var saved *models.Insight
	if existing == nil {
		sess := middleware.SessionFromCtx(r.Context())
		in.AuthorID = sess.UserID
		saved, err = h.insights.Create(in)
	} else {
		in.ID = existing.ID
		in.AuthorID = existing.AuthorID
		in.PublishedAt = existing.PublishedAt
		saved, err = h.insights.Update(in)
	}
	if errors.Is(err, store.ErrConflict) {
		writeError(w, "an insight with this slug already exists", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("insight save failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if saved == nil {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}

	gallery, err := h.storeGallery(w, r, models.OwnerInsight, saved.ID, assets)
	if err != nil {
		return
	}

	if err := h.applyTags(saved, r.Form["tags"]); err != nil {
		slog.Warn("tag update failed", "insight", saved.ID, "error", err)
		warnings = append(warnings, "tags could not be updated")
	}

	h.invalidate(r.Context(), "insights", "tags")

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

// storeGallery persists the gallery for an owner and writes the 500 on
// failure, so submit handlers can bail with a bare return.
func (h *Admin) storeGallery(w http.ResponseWriter, r *http.Request, ownerType models.OwnerType,
	ownerID uuid.UUID, assets []*uploader.Asset) ([]models.GalleryImage, error) {

	var images []models.GalleryImage
	for _, a := range assets {
		if a.State != uploader.StateDone {
			continue
		}
		img := models.GalleryImage{
			URL:         a.URL,
			AltText:     a.Alt,
			Title:       a.Title,
			S3Key:       a.Key,
			ContentType: a.ContentType,
			SizeBytes:   a.Size,
		}
		if a.ThumbURL != "" {
			img.ThumbURL = &a.ThumbURL
		}
		if a.ThumbKey != "" {
			img.ThumbS3Key = &a.ThumbKey
		}
		images = append(images, img)
	}

	removed, err := h.gallery.ReplaceForOwner(ownerType, ownerID, images)
	if err != nil {
		slog.Error("gallery replace failed", "owner", ownerID, "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return nil, err
	}
	h.deleteObjects(r.Context(), removed)

	stored, err := h.gallery.ListByOwner(ownerType, ownerID)
	if err != nil {
		slog.Error("gallery load failed", "owner", ownerID, "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return nil, err
	}
	if stored == nil {
		stored = []models.GalleryImage{}
	}
	return stored, nil
}

// applyTags finds or creates each named tag and attaches the set to the
// insight, replacing its previous tags.
func (h *Admin) applyTags(in *models.Insight, names []string) error {
	var ids []uuid.UUID
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := h.tags.FindByName(name)
		if err != nil {
			return err
		}
		if tag == nil {
			tag, err = h.tags.Create(name, slug.Generate(name))
			if errors.Is(err, store.ErrConflict) {
				// Raced with another writer; the tag exists now.
				tag, err = h.tags.FindByName(name)
			}
			if err != nil {
				return err
			}
			if tag == nil {
				continue
			}
		}
		ids = append(ids, tag.ID)
	}
	return h.tags.ReplaceForInsight(in.ID, ids)
}

// PatchInsight partially updates the published/featured flags.
func (h *Admin) PatchInsight(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}

	var req struct {
		Published *bool `json:"published"`
		Featured  *bool `json:"featured"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Published == nil && req.Featured == nil {
		writeError(w, "nothing to update", http.StatusBadRequest)
		return
	}

	updated, err := h.insights.SetFlags(id, store.Flags{Published: req.Published, Featured: req.Featured})
	if err != nil {
		slog.Error("insight flag update failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if updated == nil {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}

	h.invalidate(r.Context(), "insights")
	writeJSON(w, http.StatusOK, map[string]any{"record": updated})
}

// DeleteInsight removes one insight, its gallery, and its objects.
func (h *Admin) DeleteInsight(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}
	insight, err := h.insights.FindByID(id)
	if err != nil {
		slog.Error("admin insight lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if insight == nil {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}

	if err := h.insights.Delete(id); err != nil {
		slog.Error("insight delete failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.deleteOwnerGallery(r.Context(), models.OwnerInsight, id)

	h.invalidate(r.Context(), "insights", "tags")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// BulkDeleteInsights removes a batch of insights in one call.
func (h *Admin) BulkDeleteInsights(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, "no ids given", http.StatusBadRequest)
		return
	}

	deleted, err := h.insights.DeleteMany(req.IDs)
	if err != nil {
		slog.Error("insight bulk delete failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	for _, id := range req.IDs {
		h.deleteOwnerGallery(r.Context(), models.OwnerInsight, id)
	}

	h.invalidate(r.Context(), "insights", "tags")
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
