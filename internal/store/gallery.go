// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"foliopress/internal/models"
)

// GalleryStore manages the gallery image rows attached to content records.
type GalleryStore struct {
	db *sql.DB
}

// NewGalleryStore returns a new GalleryStore.
func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

const galleryColumns = `id, owner_type, owner_id, url, thumb_url, alt_text, title,
	sort_order, s3_key, thumb_s3_key, content_type, size_bytes, created_at`

// scanGalleryImage scans a gallery row from the result set.
func scanGalleryImage(scanner interface{ Scan(...any) error }) (*models.GalleryImage, error) {
	var g models.GalleryImage
	err := scanner.Scan(
		&g.ID, &g.OwnerType, &g.OwnerID, &g.URL, &g.ThumbURL, &g.AltText, &g.Title,
		&g.SortOrder, &g.S3Key, &g.ThumbS3Key, &g.ContentType, &g.SizeBytes, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByOwner returns a record's gallery in display order.
func (s *GalleryStore) ListByOwner(ownerType models.OwnerType, ownerID uuid.UUID) ([]models.GalleryImage, error) {
	rows, err := s.db.Query(`
		SELECT `+galleryColumns+` FROM gallery_images
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY sort_order, created_at
	`, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	var items []models.GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// ReplaceForOwner rewrites a record's gallery in one transaction,
// preserving the order of the given slice. Images removed by the edit are
// returned so the caller can delete the corresponding S3 objects.
func (s *GalleryStore) ReplaceForOwner(ownerType models.OwnerType, ownerID uuid.UUID, images []models.GalleryImage) (removed []models.GalleryImage, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin gallery replace: %w", err)
	}
	defer tx.Rollback()

	// Collect rows whose storage keys disappear with this edit.
	kept := make(map[string]bool, len(images))
	for _, img := range images {
		kept[img.S3Key] = true
	}
	existing, err := tx.Query(`
		SELECT `+galleryColumns+` FROM gallery_images
		WHERE owner_type = $1 AND owner_id = $2
	`, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load existing gallery: %w", err)
	}
	for existing.Next() {
		g, err := scanGalleryImage(existing)
		if err != nil {
			existing.Close()
			return nil, fmt.Errorf("scan existing gallery image: %w", err)
		}
		if !kept[g.S3Key] {
			removed = append(removed, *g)
		}
	}
	if err := existing.Err(); err != nil {
		existing.Close()
		return nil, err
	}
	existing.Close()

	if _, err := tx.Exec(`
		DELETE FROM gallery_images WHERE owner_type = $1 AND owner_id = $2
	`, ownerType, ownerID); err != nil {
		return nil, fmt.Errorf("clear gallery: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO gallery_images (owner_type, owner_id, url, thumb_url, alt_text,
			title, sort_order, s3_key, thumb_s3_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return nil, fmt.Errorf("prepare gallery insert: %w", err)
	}
	defer stmt.Close()

	for i, img := range images {
		if _, err := stmt.Exec(
			ownerType, ownerID, img.URL, img.ThumbURL, img.AltText,
			img.Title, i, img.S3Key, img.ThumbS3Key, img.ContentType, img.SizeBytes,
		); err != nil {
			return nil, fmt.Errorf("insert gallery image %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit gallery replace: %w", err)
	}
	return removed, nil
}

// DeleteByOwner removes a record's gallery rows and returns them so the
// caller can clean up the corresponding S3 objects.
func (s *GalleryStore) DeleteByOwner(ownerType models.OwnerType, ownerID uuid.UUID) ([]models.GalleryImage, error) {
	rows, err := s.db.Query(`
		DELETE FROM gallery_images
		WHERE owner_type = $1 AND owner_id = $2
		RETURNING `+galleryColumns,
		ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("delete gallery: %w", err)
	}
	defer rows.Close()

	var removed []models.GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deleted gallery image: %w", err)
		}
		removed = append(removed, *g)
	}
	return removed, rows.Err()
}

// Count returns the total number of gallery images.
func (s *GalleryStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM gallery_images`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count gallery images: %w", err)
	}
	return count, nil
}
