// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyStatus represents the lifecycle stage of a portfolio company.
type CompanyStatus string

const (
	CompanyActive  CompanyStatus = "active"
	CompanyExited  CompanyStatus = "exited"
	CompanyStealth CompanyStatus = "stealth"
)

// ValidCompanyStatus reports whether s is a known portfolio stage.
func ValidCompanyStatus(s CompanyStatus) bool {
	switch s {
	case CompanyActive, CompanyExited, CompanyStealth:
		return true
	}
	return false
}

// Company represents a portfolio company shown on the site.
type Company struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Sector      string        `json:"sector"`
	Status      CompanyStatus `json:"status"`
	Description string        `json:"description"`
	LogoURL     *string       `json:"logo_url,omitempty"`
	WebsiteURL  *string       `json:"website_url,omitempty"`
	Featured    bool          `json:"featured"`
	AuthorID    uuid.UUID     `json:"author_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
