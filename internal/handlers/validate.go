// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"foliopress/internal/models"
)

// Validation limits for content fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	minBodyLen    = 10
	maxBodyLen    = 100_000
	maxExcerptLen = 1_000
	maxTagLen     = 100
)

// validateContent checks the shared post/insight fields. Returns a map
// of field name to message; an empty map means the input is valid.
// Validation runs before any upload or store write.
func validateContent(title, category, status, body string) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(title) == "" {
		errs["title"] = "Title is required."
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		errs["title"] = "Title is too long (max 300 characters)."
	}

	if strings.TrimSpace(category) == "" {
		errs["category"] = "Category is required."
	}

	if !models.ValidStatus(models.Status(status)) {
		errs["status"] = "Status must be draft or published."
	}

	switch n := utf8.RuneCountInString(strings.TrimSpace(body)); {
	case n < minBodyLen:
		errs["body"] = "Body is too short (min 10 characters)."
	case n > maxBodyLen:
		errs["body"] = "Body is too long (max 100,000 characters)."
	}

	return errs
}

// validateCompany checks company form inputs.
func validateCompany(name, sector, status, description string) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(name) > maxTitleLen {
		errs["name"] = "Name is too long (max 300 characters)."
	}

	if strings.TrimSpace(sector) == "" {
		errs["sector"] = "Sector is required."
	}

	if !models.ValidCompanyStatus(models.CompanyStatus(status)) {
		errs["status"] = "Status must be active, exited, or stealth."
	}

	switch n := utf8.RuneCountInString(strings.TrimSpace(description)); {
	case n < minBodyLen:
		errs["description"] = "Description is too short (min 10 characters)."
	case n > maxBodyLen:
		errs["description"] = "Description is too long (max 100,000 characters)."
	}

	return errs
}

// validateExcerpt checks the optional excerpt field.
func validateExcerpt(excerpt string) (string, bool) {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters).", false
	}
	return "", true
}

// validateTagName checks a tag name for the tag CRUD endpoints.
func validateTagName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Tag name is required."
	}
	if utf8.RuneCountInString(name) > maxTagLen {
		return "Tag name is too long (max 100 characters)."
	}
	return ""
}
