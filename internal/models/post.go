// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the publishing state of a content record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ValidStatus reports whether s is one of the accepted publishing states.
func ValidStatus(s Status) bool {
	return s == StatusDraft || s == StatusPublished
}

// Post represents a blog post. The ID is assigned by the database on the
// first successful insert; a zero ID means the record was never persisted.
type Post struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Category         string     `json:"category"`
	Status           Status     `json:"status"`
	Body             string     `json:"body"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	AuthorID         uuid.UUID  `json:"author_id"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}
