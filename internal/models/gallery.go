// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerType identifies which kind of content record a gallery image
// belongs to.
type OwnerType string

const (
	OwnerPost    OwnerType = "post"
	OwnerCompany OwnerType = "company"
	OwnerInsight OwnerType = "insight"
)

// GalleryImage represents a persisted image attached to a content record.
// The file itself lives in object storage; this row holds its metadata and
// permanent retrieval URL. An image row is only ever written after the
// upload succeeded, so URL is never empty.
type GalleryImage struct {
	ID          uuid.UUID `json:"id"`
	OwnerType   OwnerType `json:"owner_type"`
	OwnerID     uuid.UUID `json:"owner_id"`
	URL         string    `json:"url"`
	ThumbURL    *string   `json:"thumb_url,omitempty"`
	AltText     string    `json:"alt_text"`
	Title       string    `json:"title"`
	SortOrder   int       `json:"sort_order"`
	S3Key       string    `json:"s3_key"`
	ThumbS3Key  *string   `json:"thumb_s3_key,omitempty"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsImage returns true if the stored object is an image type.
func (g *GalleryImage) IsImage() bool {
	return strings.HasPrefix(g.ContentType, "image/")
}

// HumanSize returns a human-readable file size string.
func (g *GalleryImage) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case g.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(g.SizeBytes)/float64(mb))
	case g.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(g.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", g.SizeBytes)
	}
}
