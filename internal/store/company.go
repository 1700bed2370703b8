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

// CompanyStore handles all portfolio-company database operations.
type CompanyStore struct {
	db *sql.DB
}

// NewCompanyStore creates a new CompanyStore with the given database connection.
func NewCompanyStore(db *sql.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

const companyColumns = `id, name, slug, sector, status, description,
	logo_url, website_url, featured, author_id, created_at, updated_at`

// scanCompany scans a company row from the result set.
func scanCompany(scanner interface{ Scan(...any) error }) (*models.Company, error) {
	var c models.Company
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Sector, &c.Status, &c.Description,
		&c.LogoURL, &c.WebsiteURL, &c.Featured, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new company and returns it with the generated ID.
func (s *CompanyStore) Create(c *models.Company) (*models.Company, error) {
	row := s.db.QueryRow(`
		INSERT INTO companies (name, slug, sector, status, description,
			logo_url, website_url, featured, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+companyColumns,
		c.Name, c.Slug, c.Sector, c.Status, c.Description,
		c.LogoURL, c.WebsiteURL, c.Featured, c.AuthorID,
	)
	result, err := scanCompany(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	return result, nil
}

// Update modifies an existing company. Last-write-wins, no version check.
func (s *CompanyStore) Update(c *models.Company) (*models.Company, error) {
	row := s.db.QueryRow(`
		UPDATE companies SET
			name = $1, slug = $2, sector = $3, status = $4, description = $5,
			logo_url = $6, website_url = $7, featured = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING `+companyColumns,
		c.Name, c.Slug, c.Sector, c.Status, c.Description,
		c.LogoURL, c.WebsiteURL, c.Featured, c.ID,
	)
	result, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return result, nil
}

// FindByID retrieves a company by its UUID. Returns nil if not found.
func (s *CompanyStore) FindByID(id uuid.UUID) (*models.Company, error) {
	row := s.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find company by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a company by its slug. Returns nil if not found.
func (s *CompanyStore) FindBySlug(slug string) (*models.Company, error) {
	row := s.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find company by slug: %w", err)
	}
	return c, nil
}

// List returns companies matching the filter plus the total row count.
func (s *CompanyStore) List(f ListFilter) ([]models.Company, int, error) {
	where := "TRUE"
	args := []any{}
	if f.Featured != nil {
		where = "featured = $1"
		args = append(args, *f.Featured)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM companies WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	limit, offset := f.limitOffset()
	args = append(args, limit, offset)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT `+companyColumns+` FROM companies
		WHERE `+where+`
		ORDER BY featured DESC, name ASC
		LIMIT $%d OFFSET $%d
	`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var items []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// Delete removes a company by ID.
func (s *CompanyStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// Count returns the total number of companies.
func (s *CompanyStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM companies`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}
