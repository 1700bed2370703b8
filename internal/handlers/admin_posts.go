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

// ListPosts returns all posts including drafts, for the admin UI.
func (h *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	f := parseListFilter(r)
	items, total, err := h.posts.List(f, false)
	if err != nil {
		slog.Error("admin post list failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, f, total))
}

// GetPost returns one post by ID with its gallery.
func (h *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}
	post, err := h.posts.FindByID(id)
	if err != nil {
		slog.Error("admin post lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}

	gallery, err := h.gallery.ListByOwner(models.OwnerPost, post.ID)
	if err != nil {
		slog.Error("gallery load failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record":  post,
		"gallery": gallery,
	})
}

// CreatePost handles the editor's multipart submit for a new post.
func (h *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	h.submitPost(w, r, nil)
}

// UpdatePost handles the editor's multipart submit for an edit.
func (h *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}
	existing, err := h.posts.FindByID(id)
	if err != nil {
		slog.Error("admin post lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}
	h.submitPost(w, r, existing)
}

// submitPost runs the editor flow for posts; same shape as insights
// without tags or the featured flag.
func (h *Admin) submitPost(w http.ResponseWriter, r *http.Request, existing *models.Post) {
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
		for _, name := range coord.Process(r.Context(), assets, "posts") {
			warnings = append(warnings, "upload failed: "+name)
		}
	}
	featuredURL := uploader.ResolveFeatured(assets, r.FormValue("featured_local_id"))

	p := &models.Post{
		Title:    title,
		Category: category,
		Status:   models.Status(status),
		Body:     body,
	}
	if excerpt = strings.TrimSpace(excerpt); excerpt != "" {
		p.Excerpt = &excerpt
	}
	if featuredURL != "" {
		p.FeaturedImageURL = &featuredURL
	}
	if s := r.FormValue("slug"); s != "" {
		p.Slug = slug.Generate(s)
	} else {
		p.Slug = slug.Generate(title)
	}

	var saved *models.Post
	if existing == nil {
		sess := middleware.SessionFromCtx(r.Context())
		p.AuthorID = sess.UserID
		saved, err = h.posts.Create(p)
	} else {
		p.ID = existing.ID
		p.AuthorID = existing.AuthorID
		p.PublishedAt = existing.PublishedAt
		saved, err = h.posts.Update(p)
	}
	if errors.Is(err, store.ErrConflict) {
		writeError(w, "a post with this slug already exists", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("post save failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if saved == nil {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}

	gallery, err := h.storeGallery(w, r, models.OwnerPost, saved.ID, assets)
	if err != nil {
		return
	}

	h.invalidate(r.Context(), "posts")

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

// DeletePost removes one post, its gallery, and its objects.
func (h *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}
	post, err := h.posts.FindByID(id)
	if err != nil {
		slog.Error("admin post lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}

	if err := h.posts.Delete(id); err != nil {
		slog.Error("post delete failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.deleteOwnerGallery(r.Context(), models.OwnerPost, id)

	h.invalidate(r.Context(), "posts")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
