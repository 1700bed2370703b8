// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Insight represents a founder insight article. Insights carry tags
// through the insight_tags join table and can be flagged as featured
// for the homepage carousel.
type Insight struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Category         string     `json:"category"`
	Status           Status     `json:"status"`
	Body             string     `json:"body"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	Featured         bool       `json:"featured"`
	AuthorID         uuid.UUID  `json:"author_id"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Tags is populated on reads that join the tag table; it is not
	// written through the insight row itself.
	Tags []Tag `json:"tags,omitempty"`
}

// IsPublished returns true if the insight is in published status.
func (i *Insight) IsPublished() bool {
	return i.Status == StatusPublished
}

// Tag is a label attached to insights. Names are unique system-wide.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`

	// UsageCount is the number of insights carrying the tag.
	// Populated by list queries only.
	UsageCount int `json:"usage_count,omitempty"`
}
