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

// TagStore manages tags and the insight_tags join table.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by name, with usage counts.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at, COUNT(it.insight_id) AS usage_count
		FROM tags t
		LEFT JOIN insight_tags it ON it.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UsageCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByName retrieves a tag by its unique name. Returns nil if not found.
func (s *TagStore) FindByName(name string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`
		SELECT id, name, slug, created_at FROM tags WHERE name = $1
	`, name).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return &t, nil
}

// Create inserts a new tag. Returns ErrConflict if the name is taken —
// tag names are unique system-wide and creation is not an upsert.
func (s *TagStore) Create(name, slug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`, name, slug).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// Delete removes a tag by ID. Join rows cascade.
func (s *TagStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// ReplaceForInsight rewrites the tag associations for an insight in a
// single transaction. Callers treat this as a best-effort secondary write
// after the insight row itself is saved: a failure here is logged and
// surfaced, but never rolls back the primary record.
func (s *TagStore) ReplaceForInsight(insightID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tag replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM insight_tags WHERE insight_id = $1`, insightID); err != nil {
		return fmt.Errorf("clear insight tags: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO insight_tags (insight_id, tag_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare tag insert: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.Exec(insightID, tagID); err != nil {
			return fmt.Errorf("insert insight tag %s: %w", tagID, err)
		}
	}

	return tx.Commit()
}

// Count returns the total number of tags.
func (s *TagStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}
