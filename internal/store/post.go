// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"foliopress/internal/models"
)

// PostStore handles all blog-post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, category, status, body, excerpt,
	featured_image_url, author_id, published_at, created_at, updated_at`

// scanPost scans a post row from the result set.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Category, &p.Status, &p.Body, &p.Excerpt,
		&p.FeaturedImageURL, &p.AuthorID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new post and returns it with the generated ID and
// timestamps. The caller never supplies an ID; the database assigns it.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (title, slug, category, status, body, excerpt,
			featured_image_url, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Category, p.Status, p.Body, p.Excerpt,
		p.FeaturedImageURL, p.AuthorID, p.PublishedAt,
	)
	result, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post. Writes are last-write-wins; there is
// no version check before the update.
func (s *PostStore) Update(p *models.Post) (*models.Post, error) {
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		UPDATE posts SET
			title = $1, slug = $2, category = $3, status = $4, body = $5,
			excerpt = $6, featured_image_url = $7, published_at = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Category, p.Status, p.Body,
		p.Excerpt, p.FeaturedImageURL, p.PublishedAt, p.ID,
	)
	result, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return result, nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a published post by its slug. Used by the public
// detail endpoint. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts WHERE slug = $1 AND status = 'published'
	`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// List returns posts matching the filter plus the total row count for
// pagination. publishedOnly restricts results to published posts (the
// public surface); the admin listing passes false.
func (s *PostStore) List(f ListFilter, publishedOnly bool) ([]models.Post, int, error) {
	where := "TRUE"
	if publishedOnly {
		where = "status = 'published'"
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE ` + where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	limit, offset := f.limitOffset()
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// Delete removes a post by ID.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Count returns the total number of posts.
func (s *PostStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
