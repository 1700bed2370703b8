// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"foliopress/internal/cache"
	"foliopress/internal/models"
	"foliopress/internal/storage"
	"foliopress/internal/store"
	"foliopress/internal/uploader"
)

// maxUploadSize caps a whole editor submission (50 MB).
const maxUploadSize = 50 << 20

// allowedImageTypes defines MIME types accepted for gallery uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// ObjectStorage is the slice of the storage client the admin handlers
// use: uploads for the coordinator, deletes for gallery cleanup, key
// extraction for rows that predate stored S3 keys. *storage.Client
// satisfies it.
type ObjectStorage interface {
	uploader.Storage
	PublicBucket() string
	Delete(ctx context.Context, bucket, key string) error
	ExtractS3Key(rawURL string) (string, bool)
}

var _ ObjectStorage = (*storage.Client)(nil)

// Admin groups the authenticated content management handlers.
type Admin struct {
	posts     *store.PostStore
	companies *store.CompanyStore
	insights  *store.InsightStore
	tags      *store.TagStore
	gallery   *store.GalleryStore
	settings  *store.SiteSettingStore
	storage   ObjectStorage
	respCache *cache.ResponseCache
}

// NewAdmin creates a new Admin handler group. storageClient may be nil
// when object storage is not configured; submissions with new images
// are then rejected.
func NewAdmin(posts *store.PostStore, companies *store.CompanyStore, insights *store.InsightStore,
	tags *store.TagStore, gallery *store.GalleryStore, settings *store.SiteSettingStore,
	storageClient ObjectStorage, respCache *cache.ResponseCache) *Admin {
	return &Admin{
		posts:     posts,
		companies: companies,
		insights:  insights,
		tags:      tags,
		gallery:   gallery,
		settings:  settings,
		storage:   storageClient,
		respCache: respCache,
	}
}

// invalidate drops every cached public response for a collection.
func (h *Admin) invalidate(ctx context.Context, collections ...string) {
	if h.respCache == nil {
		return
	}
	for _, c := range collections {
		h.respCache.InvalidateCollection(ctx, c)
	}
}

// formValues returns the multipart form values under a key, or nil.
func formValues(r *http.Request, key string) []string {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.Value[key]
}

// valueAt returns values[i] or "" when the parallel arrays are ragged.
func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// parseAssets builds the editor's asset list from a parsed multipart
// form. Stored gallery entries arrive as parallel existing_* fields and
// enter in state done, so the coordinator never re-uploads them. New
// files arrive under "image" with parallel image_local_id / image_alt /
// image_title fields and enter in state pending, holding their bytes
// until the coordinator runs.
func parseAssets(r *http.Request) ([]*uploader.Asset, error) {
	var assets []*uploader.Asset

	urls := formValues(r, "existing_url")
	thumbURLs := formValues(r, "existing_thumb_url")
	alts := formValues(r, "existing_alt")
	titles := formValues(r, "existing_title")
	keys := formValues(r, "existing_s3_key")
	thumbKeys := formValues(r, "existing_thumb_s3_key")
	localIDs := formValues(r, "existing_local_id")
	contentTypes := formValues(r, "existing_content_type")

	for i, u := range urls {
		assets = append(assets, &uploader.Asset{
			LocalID:     valueAt(localIDs, i),
			ContentType: valueAt(contentTypes, i),
			URL:         u,
			ThumbURL:    valueAt(thumbURLs, i),
			Alt:         valueAt(alts, i),
			Title:       valueAt(titles, i),
			Key:         valueAt(keys, i),
			ThumbKey:    valueAt(thumbKeys, i),
			State:       uploader.StateDone,
		})
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["image"]
	}
	newIDs := formValues(r, "image_local_id")
	newAlts := formValues(r, "image_alt")
	newTitles := formValues(r, "image_title")

	for i, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			return nil, &uploadError{file: fh.Filename, msg: "unsupported file type " + contentType}
		}

		f, err := fh.Open()
		if err != nil {
			return nil, &uploadError{file: fh.Filename, msg: "cannot read upload"}
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, &uploadError{file: fh.Filename, msg: "cannot read upload"}
		}

		assets = append(assets, &uploader.Asset{
			LocalID:     valueAt(newIDs, i),
			FileName:    fh.Filename,
			ContentType: contentType,
			Data:        data,
			Alt:         valueAt(newAlts, i),
			Title:       valueAt(newTitles, i),
			Size:        int64(len(data)),
			State:       uploader.StatePending,
		})
	}

	return assets, nil
}

// uploadError carries a per-file parse failure back to the client.
type uploadError struct {
	file string
	msg  string
}

func (e *uploadError) Error() string {
	return e.file + ": " + e.msg
}

// hasNewAssets reports whether any asset still needs uploading.
func hasNewAssets(assets []*uploader.Asset) bool {
	for _, a := range assets {
		if a.IsNew() {
			return true
		}
	}
	return false
}

// deleteObjects removes gallery rows' objects from storage. Failures
// are logged only; an orphaned object never blocks the edit.
func (h *Admin) deleteObjects(ctx context.Context, images []models.GalleryImage) {
	if h.storage == nil {
		return
	}
	for _, img := range images {
		key := img.S3Key
		if key == "" {
			// Rows imported before keys were stored only carry the URL.
			key, _ = h.storage.ExtractS3Key(img.URL)
		}
		if key != "" {
			if err := h.storage.Delete(ctx, h.storage.PublicBucket(), key); err != nil {
				slog.Warn("object delete failed", "key", key, "error", err)
			}
		}
		if img.ThumbS3Key != nil && *img.ThumbS3Key != "" {
			if err := h.storage.Delete(ctx, h.storage.PublicBucket(), *img.ThumbS3Key); err != nil {
				slog.Warn("thumb delete failed", "key", *img.ThumbS3Key, "error", err)
			}
		}
	}
}

// deleteOwnerGallery removes an owner's gallery rows and their objects.
func (h *Admin) deleteOwnerGallery(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID) {
	removed, err := h.gallery.DeleteByOwner(ownerType, ownerID)
	if err != nil {
		slog.Warn("gallery delete failed", "owner", ownerID, "error", err)
		return
	}
	h.deleteObjects(ctx, removed)
}

// parseID reads a UUID path parameter; a malformed one is a 404 rather
// than a 400, matching lookups of records that never existed.
func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}
