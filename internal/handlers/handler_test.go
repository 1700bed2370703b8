// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"foliopress/internal/cache"
	"foliopress/internal/database"
	"foliopress/internal/middleware"
	"foliopress/internal/models"
	"foliopress/internal/session"
	"foliopress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "foliopress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "foliopress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "resp:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Sessions  *session.Store
	Users     *store.UserStore
	Posts     *store.PostStore
	Companies *store.CompanyStore
	Insights  *store.InsightStore
	Tags      *store.TagStore
	Gallery   *store.GalleryStore
	Settings  *store.SiteSettingStore
	Auth      *Auth
	Public    *Public
	Admin     *Admin
}

// newTestEnv creates a complete test environment with all handler
// dependencies. The admin handlers get a nil storage client, so editor
// submits without new files work and submits with new files are
// rejected with 503.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	companies := store.NewCompanyStore(db)
	insights := store.NewInsightStore(db)
	tags := store.NewTagStore(db)
	gallery := store.NewGalleryStore(db)
	settings := store.NewSiteSettingStore(db)
	respCache := cache.NewResponseCache(vk, 1*time.Minute)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Sessions:  sessions,
		Users:     users,
		Posts:     posts,
		Companies: companies,
		Insights:  insights,
		Tags:      tags,
		Gallery:   gallery,
		Settings:  settings,
		Auth:      NewAuth(sessions, users),
		Public:    NewPublic(posts, companies, insights, tags, gallery, respCache),
		Admin:     NewAdmin(posts, companies, insights, tags, gallery, settings, nil, respCache),
	}
}

// testAuthorID finds or creates a stable editor user for content writes.
func testAuthorID(t *testing.T, users *store.UserStore) uuid.UUID {
	t.Helper()

	const email = "handler-test@foliopress.local"
	u, err := users.FindByEmail(email)
	if err != nil {
		t.Fatalf("find test user: %v", err)
	}
	if u == nil {
		u, err = users.Create(email, "handler-test-password", "Handler Test", models.RoleEditor)
		if err != nil {
			t.Fatalf("create test user: %v", err)
		}
	}
	return u.ID
}

// testSession creates session data for an authenticated, 2FA-verified editor.
func testSession(userID uuid.UUID) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       "handler-test@foliopress.local",
		DisplayName: "Handler Test",
		Role:        "editor",
		TwoFADone:   true,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeJSON decodes a recorder body, failing the test on bad JSON.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// cleanPosts removes test posts by slug.
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", s)
	}
}

// cleanCompanies removes test companies by slug.
func cleanCompanies(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM companies WHERE slug = $1", s)
	}
}

// cleanInsights removes test insights by slug.
func cleanInsights(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM insights WHERE slug = $1", s)
	}
}

// cleanTags removes test tags by name.
func cleanTags(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, n := range names {
		db.Exec("DELETE FROM tags WHERE name = $1", n)
	}
}
