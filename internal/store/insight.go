// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"foliopress/internal/models"
)

// InsightStore handles all founder-insight database operations,
// including the tag join table.
type InsightStore struct {
	db *sql.DB
}

// NewInsightStore creates a new InsightStore with the given database connection.
func NewInsightStore(db *sql.DB) *InsightStore {
	return &InsightStore{db: db}
}

const insightColumns = `id, title, slug, category, status, body, excerpt,
	featured_image_url, featured, author_id, published_at, created_at, updated_at`

// scanInsight scans an insight row from the result set.
func scanInsight(scanner interface{ Scan(...any) error }) (*models.Insight, error) {
	var in models.Insight
	err := scanner.Scan(
		&in.ID, &in.Title, &in.Slug, &in.Category, &in.Status, &in.Body, &in.Excerpt,
		&in.FeaturedImageURL, &in.Featured, &in.AuthorID, &in.PublishedAt, &in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// Create inserts a new insight and returns it with the generated ID.
func (s *InsightStore) Create(in *models.Insight) (*models.Insight, error) {
	if in.Status == models.StatusPublished && in.PublishedAt == nil {
		now := time.Now()
		in.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		INSERT INTO insights (title, slug, category, status, body, excerpt,
			featured_image_url, featured, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+insightColumns,
		in.Title, in.Slug, in.Category, in.Status, in.Body, in.Excerpt,
		in.FeaturedImageURL, in.Featured, in.AuthorID, in.PublishedAt,
	)
	result, err := scanInsight(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create insight: %w", err)
	}
	return result, nil
}

// Update modifies an existing insight. Last-write-wins, no version check.
func (s *InsightStore) Update(in *models.Insight) (*models.Insight, error) {
	if in.Status == models.StatusPublished && in.PublishedAt == nil {
		now := time.Now()
		in.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		UPDATE insights SET
			title = $1, slug = $2, category = $3, status = $4, body = $5,
			excerpt = $6, featured_image_url = $7, featured = $8,
			published_at = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING `+insightColumns,
		in.Title, in.Slug, in.Category, in.Status, in.Body,
		in.Excerpt, in.FeaturedImageURL, in.Featured, in.PublishedAt, in.ID,
	)
	result, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update insight: %w", err)
	}
	return result, nil
}

// FindByID retrieves an insight by its UUID with tags attached.
// Returns nil if not found.
func (s *InsightStore) FindByID(id uuid.UUID) (*models.Insight, error) {
	row := s.db.QueryRow(`SELECT `+insightColumns+` FROM insights i WHERE i.id = $1`, id)
	in, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find insight by id: %w", err)
	}
	if err := s.attachTags(in); err != nil {
		return nil, err
	}
	return in, nil
}

// FindBySlug retrieves a published insight by its slug with tags attached.
// Returns nil if not found.
func (s *InsightStore) FindBySlug(slug string) (*models.Insight, error) {
	row := s.db.QueryRow(`
		SELECT `+insightColumns+` FROM insights i
		WHERE i.slug = $1 AND i.status = 'published'
	`, slug)
	in, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find insight by slug: %w", err)
	}
	if err := s.attachTags(in); err != nil {
		return nil, err
	}
	return in, nil
}

// List returns insights matching the filter plus the total matching count.
// The featured and tag filters are applied server-side; pagination totals
// come from a separate COUNT over the same predicates.
func (s *InsightStore) List(f ListFilter, publishedOnly bool) ([]models.Insight, int, error) {
	conds := []string{"TRUE"}
	var args []any
	if publishedOnly {
		conds = append(conds, "i.status = 'published'")
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conds = append(conds, fmt.Sprintf("i.featured = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM insight_tags it
			         JOIN tags t ON t.id = it.tag_id
			         WHERE it.insight_id = i.id AND t.slug = $%d)`, len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM insights i WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count insights: %w", err)
	}

	limit, offset := f.limitOffset()
	args = append(args, limit, offset)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT `+insightColumns+` FROM insights i
		WHERE `+where+`
		ORDER BY i.created_at DESC
		LIMIT $%d OFFSET $%d
	`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	var items []models.Insight
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan insight: %w", err)
		}
		items = append(items, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachTagsToAll(items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Flags holds the partially-updatable insight fields. Nil means "leave as is".
type Flags struct {
	Published *bool
	Featured  *bool
}

// SetFlags applies a partial update of the published/featured flags and
// returns the updated row. Publishing for the first time stamps
// published_at. Returns nil if the insight does not exist.
func (s *InsightStore) SetFlags(id uuid.UUID, flags Flags) (*models.Insight, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any
	if flags.Published != nil {
		status := models.StatusDraft
		if *flags.Published {
			status = models.StatusPublished
		}
		args = append(args, status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
		if *flags.Published {
			sets = append(sets, "published_at = COALESCE(published_at, NOW())")
		}
	}
	if flags.Featured != nil {
		args = append(args, *flags.Featured)
		sets = append(sets, fmt.Sprintf("featured = $%d", len(args)))
	}

	args = append(args, id)
	row := s.db.QueryRow(fmt.Sprintf(`
		UPDATE insights i SET %s WHERE i.id = $%d
		RETURNING `+insightColumns,
		strings.Join(sets, ", "), len(args)), args...)
	in, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set insight flags: %w", err)
	}
	if err := s.attachTags(in); err != nil {
		return nil, err
	}
	return in, nil
}

// DeleteMany removes the given insights and returns how many rows were
// deleted. Join rows cascade; gallery rows are cleaned up by the caller
// so the S3 objects can be removed too.
func (s *InsightStore) DeleteMany(ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	res, err := s.db.Exec(`DELETE FROM insights WHERE id = ANY($1::uuid[])`, strIDs)
	if err != nil {
		return 0, fmt.Errorf("bulk delete insights: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk delete insights: %w", err)
	}
	return n, nil
}

// Delete removes an insight by ID.
func (s *InsightStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM insights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	return nil
}

// attachTags loads the tags for a single insight.
func (s *InsightStore) attachTags(in *models.Insight) error {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN insight_tags it ON it.tag_id = t.id
		WHERE it.insight_id = $1
		ORDER BY t.name
	`, in.ID)
	if err != nil {
		return fmt.Errorf("load insight tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		in.Tags = append(in.Tags, t)
	}
	return rows.Err()
}

// attachTagsToAll loads tags for a listing in one query keyed by insight ID.
func (s *InsightStore) attachTagsToAll(items []models.Insight) error {
	if len(items) == 0 {
		return nil
	}
	strIDs := make([]string, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for i := range items {
		strIDs[i] = items[i].ID.String()
		index[items[i].ID] = i
	}

	rows, err := s.db.Query(`
		SELECT it.insight_id, t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN insight_tags it ON it.tag_id = t.id
		WHERE it.insight_id = ANY($1::uuid[])
		ORDER BY t.name
	`, strIDs)
	if err != nil {
		return fmt.Errorf("load listing tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var insightID uuid.UUID
		var t models.Tag
		if err := rows.Scan(&insightID, &t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan listing tag: %w", err)
		}
		if i, ok := index[insightID]; ok {
			items[i].Tags = append(items[i].Tags, t)
		}
	}
	return rows.Err()
}

// Count returns the total number of insights.
func (s *InsightStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM insights`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count insights: %w", err)
	}
	return count, nil
}
