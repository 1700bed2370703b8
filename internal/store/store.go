// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConflict is returned when an insert violates a uniqueness constraint,
// such as creating a tag whose name already exists. Handlers map it to 409.
var ErrConflict = errors.New("record already exists")

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const (
	// DefaultLimit is the page size applied when a list request does not
	// specify one.
	DefaultLimit = 12

	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// ListFilter narrows and paginates collection queries. Page is 1-based.
type ListFilter struct {
	Featured *bool
	Tag      string // tag slug; insights only
	Page     int
	Limit    int
}

// limitOffset normalizes the filter into SQL LIMIT/OFFSET values.
func (f ListFilter) limitOffset() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
