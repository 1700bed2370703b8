// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"foliopress/internal/cache"
	"foliopress/internal/markdown"
	"foliopress/internal/models"
	"foliopress/internal/store"
)

// Public groups the unauthenticated read-only API handlers.
type Public struct {
	posts     *store.PostStore
	companies *store.CompanyStore
	insights  *store.InsightStore
	tags      *store.TagStore
	gallery   *store.GalleryStore
	respCache *cache.ResponseCache
}

// NewPublic creates a new Public handler group. respCache may be nil,
// in which case every read goes to the database.
func NewPublic(posts *store.PostStore, companies *store.CompanyStore, insights *store.InsightStore,
	tags *store.TagStore, gallery *store.GalleryStore, respCache *cache.ResponseCache) *Public {
	return &Public{
		posts:     posts,
		companies: companies,
		insights:  insights,
		tags:      tags,
		gallery:   gallery,
		respCache: respCache,
	}
}

// serveCached writes a cached response if one exists, otherwise calls
// build, caches its result, and writes it.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, collection string, build func() (any, error)) {
	key := cache.Key(collection, r.URL.RequestURI())

	if p.respCache != nil {
		if body, hit := p.respCache.Get(r.Context(), key); hit {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	payload, err := build()
	if err != nil {
		slog.Error("public read failed", "collection", collection, "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if p.respCache != nil {
		p.respCache.Set(r.Context(), key, body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// ListPosts returns published posts with pagination.
func (p *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	f := parseListFilter(r)
	p.serveCached(w, r, "posts", func() (any, error) {
		items, total, err := p.posts.List(f, true)
		if err != nil {
			return nil, err
		}
		return newListResponse(items, f, total), nil
	})
}

// GetPost returns a published post by slug with rendered body.
func (p *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := p.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "post not found", http.StatusNotFound)
		return
	}
	p.writeDetail(w, post, post.Body, models.OwnerPost, post.ID)
}

// ListCompanies returns portfolio companies; supports ?featured=true.
func (p *Public) ListCompanies(w http.ResponseWriter, r *http.Request) {
	f := parseListFilter(r)
	p.serveCached(w, r, "companies", func() (any, error) {
		items, total, err := p.companies.List(f)
		if err != nil {
			return nil, err
		}
		return newListResponse(items, f, total), nil
	})
}

// GetCompany returns a company profile by slug.
func (p *Public) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := p.companies.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("company lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if company == nil {
		writeError(w, "company not found", http.StatusNotFound)
		return
	}
	p.writeDetail(w, company, company.Description, models.OwnerCompany, company.ID)
}

// ListInsights returns published insights. Supports featured, tag,
// page, and limit query filters.
func (p *Public) ListInsights(w http.ResponseWriter, r *http.Request) {
	f := parseListFilter(r)
	p.serveCached(w, r, "insights", func() (any, error) {
		items, total, err := p.insights.List(f, true)
		if err != nil {
			return nil, err
		}
		return newListResponse(items, f, total), nil
	})
}

// GetInsight returns a published insight by slug with rendered body,
// tags, and gallery.
func (p *Public) GetInsight(w http.ResponseWriter, r *http.Request) {
	insight, err := p.insights.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("insight lookup failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if insight == nil {
		writeError(w, "insight not found", http.StatusNotFound)
		return
	}
	p.writeDetail(w, insight, insight.Body, models.OwnerInsight, insight.ID)
}

// ListTags returns every tag with usage counts.
func (p *Public) ListTags(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, "tags", func() (any, error) {
		tags, err := p.tags.List()
		if err != nil {
			return nil, err
		}
		if tags == nil {
			tags = []models.Tag{}
		}
		return map[string]any{"items": tags}, nil
	})
}

// writeDetail composes a detail response: the record itself plus the
// goldmark-rendered body and the owner's gallery.
func (p *Public) writeDetail(w http.ResponseWriter, record any, body string, ownerType models.OwnerType, ownerID uuid.UUID) {
	html, err := markdown.ToHTML(body)
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		html = ""
	}

	gallery, err := p.gallery.ListByOwner(ownerType, ownerID)
	if err != nil {
		slog.Error("gallery load failed", "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if gallery == nil {
		gallery = []models.GalleryImage{}
	}

	writeJSON(w, http.StatusOK, detailResponse{
		Record:   record,
		BodyHTML: html,
		Gallery:  gallery,
	})
}
