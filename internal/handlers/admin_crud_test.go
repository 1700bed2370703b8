// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"foliopress/internal/models"
)

// editorForm builds a multipart body from plain fields. Repeated values
// use the same key more than once (tags, existing_* rows).
func editorForm(t *testing.T, fields map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field %s: %v", key, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// formFile is a named image payload attached to an editor submission.
type formFile struct {
	name string
	data []byte
}

// editorFormWithFiles additionally attaches image file parts, in order.
func editorFormWithFiles(t *testing.T, fields map[string][]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field %s: %v", key, err)
			}
		}
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="image"; filename="` + f.name + `"`}
		h["Content-Type"] = []string{"image/png"}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// fakeStorage is an in-memory ObjectStorage for handler tests. Uploads
// are counted in call order; calls numbered failFrom and later fail.
type fakeStorage struct {
	uploads  int
	failFrom int // 1-based; 0 means never fail
	deleted  []string
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	f.uploads++
	if f.failFrom > 0 && f.uploads >= f.failFrom {
		return errors.New("backend unavailable")
	}
	return nil
}

func (f *fakeStorage) FileURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeStorage) PublicBucket() string { return "test-public" }

func (f *fakeStorage) Delete(ctx context.Context, bucket, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) ExtractS3Key(rawURL string) (string, bool) {
	const prefix = "https://cdn.test/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}
	return "", false
}

func submitRequest(t *testing.T, env *testEnv, method, target string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	sess := testSession(testAuthorID(t, env.Users))
	return req.WithContext(ctxWithSession(req.Context(), sess))
}

// --- Posts ---

func TestCreatePost_ValidData_Returns201(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-post-create-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanPosts(t, env.DB, testSlug) })

	body, ct := editorForm(t, map[string][]string{
		"title":    {"Handler Post Create"},
		"slug":     {testSlug},
		"category": {"engineering"},
		"status":   {"draft"},
		"body":     {"A body with more than ten characters."},
	})
	req := submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct)

	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("CreatePost: got status %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Record   models.Post           `json:"record"`
		Gallery  []models.GalleryImage `json:"gallery"`
		Warnings []string              `json:"warnings"`
	}
	decodeJSON(t, rec, &resp)

	if resp.Record.Slug != testSlug {
		t.Errorf("slug: got %q, want %q", resp.Record.Slug, testSlug)
	}
	if resp.Record.ID == uuid.Nil {
		t.Error("record ID should be assigned")
	}
	if len(resp.Gallery) != 0 {
		t.Errorf("gallery: got %d images, want 0", len(resp.Gallery))
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("warnings: got %v, want none", resp.Warnings)
	}
}

func TestCreatePost_MissingTitle_Returns400AndNoWrite(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-post-invalid-" + uuid.New().String()[:8]

	body, ct := editorForm(t, map[string][]string{
		"title":    {""},
		"slug":     {testSlug},
		"category": {"engineering"},
		"status":   {"draft"},
		"body":     {"A body with more than ten characters."},
	})
	req := submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct)

	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("CreatePost invalid: got status %d, want 400", rec.Code)
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, rec, &resp)
	if resp.Error != "validation failed" {
		t.Errorf("error: got %q, want \"validation failed\"", resp.Error)
	}
	if resp.Fields["title"] == "" {
		t.Errorf("fields: missing title error in %v", resp.Fields)
	}

	// Nothing must be persisted on a validation failure.
	p, err := env.Posts.FindBySlug(testSlug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if p != nil {
		t.Error("post was persisted despite validation failure")
	}
}

func TestCreatePost_NewImageWithoutStorage_Returns503(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-post-nostorage-" + uuid.New().String()[:8]

	body, ct := editorFormWithFiles(t, map[string][]string{
		"title":          {"Post With Image"},
		"slug":           {testSlug},
		"category":       {"engineering"},
		"status":         {"draft"},
		"body":           {"A body with more than ten characters."},
		"image_local_id": {"img-1"},
		"image_alt":      {"An image"},
		"image_title":    {"Image"},
	}, formFile{name: "photo.png", data: []byte{0x89, 'P', 'N', 'G'}})
	req := submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct)

	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("CreatePost without storage: got status %d, want 503", rec.Code)
	}

	p, err := env.Posts.FindBySlug(testSlug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if p != nil {
		t.Error("post was persisted despite storage being unavailable")
	}
}

func TestCreatePost_DuplicateSlug_Returns409(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-post-dup-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanPosts(t, env.DB, testSlug) })

	fields := map[string][]string{
		"title":    {"Duplicate Slug Post"},
		"slug":     {testSlug},
		"category": {"engineering"},
		"status":   {"draft"},
		"body":     {"A body with more than ten characters."},
	}

	body, ct := editorForm(t, fields)
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: got status %d, want 201", rec.Code)
	}

	body, ct = editorForm(t, fields)
	rec = httptest.NewRecorder()
	env.Admin.CreatePost(rec, submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct))
	if rec.Code != http.StatusConflict {
		t.Fatalf("second create: got status %d, want 409", rec.Code)
	}
}

func TestUpdatePost_PreservesAuthorAndChangesFields(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-post-update-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanPosts(t, env.DB, testSlug) })

	body, ct := editorForm(t, map[string][]string{
		"title":    {"Before Update"},
		"slug":     {testSlug},
		"category": {"engineering"},
		"status":   {"draft"},
		"body":     {"A body with more than ten characters."},
	})
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201", rec.Code)
	}
	var created struct {
		Record models.Post `json:"record"`
	}
	decodeJSON(t, rec, &created)

	body, ct = editorForm(t, map[string][]string{
		"title":    {"After Update"},
		"slug":     {testSlug},
		"category": {"design"},
		"status":   {"published"},
		"body":     {"An updated body with more than ten characters."},
	})
	req := submitRequest(t, env, http.MethodPut, "/api/admin/posts/"+created.Record.ID.String(), body, ct)
	req = withChiURLParam(req, "id", created.Record.ID.String())

	rec = httptest.NewRecorder()
	env.Admin.UpdatePost(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var updated struct {
		Record models.Post `json:"record"`
	}
	decodeJSON(t, rec, &updated)
	if updated.Record.Title != "After Update" {
		t.Errorf("title: got %q, want %q", updated.Record.Title, "After Update")
	}
	if updated.Record.AuthorID != created.Record.AuthorID {
		t.Error("author must be preserved across updates")
	}
}

func TestUpdatePost_MissingID_Returns404(t *testing.T) {
	env := newTestEnv(t)

	body, ct := editorForm(t, map[string][]string{
		"title":    {"Ghost"},
		"category": {"engineering"},
		"status":   {"draft"},
		"body":     {"A body with more than ten characters."},
	})
	req := submitRequest(t, env, http.MethodPut, "/api/admin/posts/"+uuid.New().String(), body, ct)
	req = withChiURLParam(req, "id", uuid.New().String())

	rec := httptest.NewRecorder()
	env.Admin.UpdatePost(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing: got status %d, want 404", rec.Code)
	}
}

func TestDeletePost_RemovesRecord(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-post-delete-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanPosts(t, env.DB, testSlug) })

	body, ct := editorForm(t, map[string][]string{
		"title":    {"To Be Deleted"},
		"slug":     {testSlug},
		"category": {"engineering"},
		"status":   {"draft"},
		"body":     {"A body with more than ten characters."},
	})
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201", rec.Code)
	}
	var created struct {
		Record models.Post `json:"record"`
	}
	decodeJSON(t, rec, &created)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/posts/"+created.Record.ID.String(), nil)
	req = withChiURLParam(req, "id", created.Record.ID.String())
	rec = httptest.NewRecorder()
	env.Admin.DeletePost(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got status %d, want 200", rec.Code)
	}

	p, err := env.Posts.FindByID(created.Record.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p != nil {
		t.Error("post still present after delete")
	}
}

func TestGetPost_MalformedID_Returns404(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/posts/not-a-uuid", nil)
	req = withChiURLParam(req, "id", "not-a-uuid")
	rec := httptest.NewRecorder()
	env.Admin.GetPost(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("malformed ID: got status %d, want 404", rec.Code)
	}
}

// --- Companies ---

func TestCreateCompany_ValidData_Returns201(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-company-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanCompanies(t, env.DB, testSlug) })

	body, ct := editorForm(t, map[string][]string{
		"name":        {"Handler Test Co"},
		"slug":        {testSlug},
		"sector":      {"fintech"},
		"status":      {"active"},
		"description": {"A portfolio company."},
		"website_url": {"https://example.com"},
		"featured":    {"true"},
	})
	req := submitRequest(t, env, http.MethodPost, "/api/admin/companies", body, ct)

	rec := httptest.NewRecorder()
	env.Admin.CreateCompany(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("CreateCompany: got status %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Record models.Company `json:"record"`
	}
	decodeJSON(t, rec, &resp)
	if !resp.Record.Featured {
		t.Error("featured flag not persisted")
	}
	if resp.Record.WebsiteURL == nil || *resp.Record.WebsiteURL != "https://example.com" {
		t.Errorf("website_url: got %v", resp.Record.WebsiteURL)
	}
}

func TestCreateCompany_BadStatus_Returns400(t *testing.T) {
	env := newTestEnv(t)

	body, ct := editorForm(t, map[string][]string{
		"name":   {"Bad Status Co"},
		"sector": {"fintech"},
		"status": {"draft"},
	})
	req := submitRequest(t, env, http.MethodPost, "/api/admin/companies", body, ct)

	rec := httptest.NewRecorder()
	env.Admin.CreateCompany(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status: got %d, want 400", rec.Code)
	}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, rec, &resp)
	if resp.Fields["status"] == "" {
		t.Errorf("fields: missing status error in %v", resp.Fields)
	}
}

// --- Insights ---

func TestCreateInsight_WithTags_Returns201(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-insight-" + uuid.New().String()[:8]
	tagName := "handler-tag-" + uuid.New().String()[:8]
	t.Cleanup(func() {
		cleanInsights(t, env.DB, testSlug)
		cleanTags(t, env.DB, tagName)
	})

	body, ct := editorForm(t, map[string][]string{
		"title":    {"Insight With Tags"},
		"slug":     {testSlug},
		"category": {"founder-stories"},
		"status":   {"published"},
		"body":     {"A body with more than ten characters."},
		"excerpt":  {"Short summary."},
		"featured": {"true"},
		"tags":     {tagName, tagName + "-b"},
	})
	t.Cleanup(func() { cleanTags(t, env.DB, tagName+"-b") })
	req := submitRequest(t, env, http.MethodPost, "/api/admin/insights", body, ct)

	rec := httptest.NewRecorder()
	env.Admin.CreateInsight(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("CreateInsight: got status %d, want 201: %s", rec.Code, rec.Body.String())
	}

	saved, err := env.Insights.FindBySlug(testSlug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if saved == nil {
		t.Fatal("insight not persisted")
	}
	if len(saved.Tags) != 2 {
		t.Errorf("tags: got %d, want 2", len(saved.Tags))
	}
	if !saved.Featured {
		t.Error("featured flag not persisted")
	}
	if saved.PublishedAt == nil {
		t.Error("publishing should stamp published_at")
	}
}

func TestPatchInsight_TogglesFlags(t *testing.T) {
	env := newTestEnv(t)

	testSlug := "handler-insight-patch-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanInsights(t, env.DB, testSlug) })

	body, ct := editorForm(t, map[string][]string{
		"title":    {"Patch Target"},
		"slug":     {testSlug},
		"category": {"founder-stories"},
		"status":   {"draft"},
		"body":     {"A body with more than ten characters."},
	})
	rec := httptest.NewRecorder()
	env.Admin.CreateInsight(rec, submitRequest(t, env, http.MethodPost, "/api/admin/insights", body, ct))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201", rec.Code)
	}
	var created struct {
		Record models.Insight `json:"record"`
	}
	decodeJSON(t, rec, &created)

	patch := strings.NewReader(`{"published": true, "featured": true}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/insights/"+created.Record.ID.String(), patch)
	req.Header.Set("Content-Type", "application/json")
	req = withChiURLParam(req, "id", created.Record.ID.String())

	rec = httptest.NewRecorder()
	env.Admin.PatchInsight(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: got status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var patched struct {
		Record models.Insight `json:"record"`
	}
	decodeJSON(t, rec, &patched)
	if patched.Record.Status != models.StatusPublished {
		t.Errorf("status: got %q, want published", patched.Record.Status)
	}
	if !patched.Record.Featured {
		t.Error("featured flag should be set")
	}
	if patched.Record.PublishedAt == nil {
		t.Error("publishing should stamp published_at")
	}
}

func TestPatchInsight_EmptyBody_Returns400(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/insights/"+uuid.New().String(), strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = withChiURLParam(req, "id", uuid.New().String())

	rec := httptest.NewRecorder()
	env.Admin.PatchInsight(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty patch: got status %d, want 400", rec.Code)
	}
}

func TestBulkDeleteInsights_ReportsCount(t *testing.T) {
	env := newTestEnv(t)

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		testSlug := "handler-insight-bulk-" + uuid.New().String()[:8]
		t.Cleanup(func() { cleanInsights(t, env.DB, testSlug) })

		body, ct := editorForm(t, map[string][]string{
			"title":    {"Bulk Target"},
			"slug":     {testSlug},
			"category": {"founder-stories"},
			"status":   {"draft"},
			"body":     {"A body with more than ten characters."},
		})
		rec := httptest.NewRecorder()
		env.Admin.CreateInsight(rec, submitRequest(t, env, http.MethodPost, "/api/admin/insights", body, ct))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: got status %d, want 201", i, rec.Code)
		}
		var created struct {
			Record models.Insight `json:"record"`
		}
		decodeJSON(t, rec, &created)
		ids = append(ids, created.Record.ID)
	}

	// One unknown ID rides along; only real rows count.
	ids = append(ids, uuid.New())
	payload, _ := json.Marshal(map[string]any{"ids": ids})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/insights/bulk-delete", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	env.Admin.BulkDeleteInsights(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk delete: got status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	decodeJSON(t, rec, &resp)
	if resp.Deleted != 2 {
		t.Errorf("deleted: got %d, want 2", resp.Deleted)
	}
}

// --- Tags ---

func TestCreateTag_Duplicate_Returns409(t *testing.T) {
	env := newTestEnv(t)

	tagName := "handler-dup-tag-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanTags(t, env.DB, tagName) })

	payload := `{"name": "` + tagName + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/admin/tags", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.Admin.CreateTag(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: got status %d, want 201", rec.Code)
	}

	before, err := env.Tags.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/tags", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	env.Admin.CreateTag(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: got status %d, want 409", rec.Code)
	}

	after, err := env.Tags.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("tag count changed on duplicate: %d -> %d", len(before), len(after))
	}
}

func TestCreateTag_EmptyName_Returns400(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/tags", strings.NewReader(`{"name": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.Admin.CreateTag(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name: got status %d, want 400", rec.Code)
	}
}

// --- Settings ---

func TestPutSettings_UpsertsAndReturnsAll(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"site_name": "FolioPress Test", "site_tagline": "Backing founders"}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	env.Admin.PutSettings(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings: got status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var settings map[string]string
	decodeJSON(t, rec, &settings)
	if settings["site_name"] != "FolioPress Test" {
		t.Errorf("site_name: got %q", settings["site_name"])
	}
}

func TestPutSettings_EmptyBody_Returns400(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	env.Admin.PutSettings(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty settings: got status %d, want 400", rec.Code)
	}
}

// --- Storage ---

func TestCreatePost_OneUploadFails_KeepsRecordWithWarning(t *testing.T) {
	env := newTestEnv(t)
	fake := &fakeStorage{failFrom: 2}
	admin := NewAdmin(env.Posts, env.Companies, env.Insights, env.Tags, env.Gallery, env.Settings, fake, nil)

	testSlug := "handler-post-partial-" + uuid.New().String()[:8]
	var ownerID uuid.UUID
	t.Cleanup(func() {
		if ownerID != uuid.Nil {
			env.DB.Exec(`DELETE FROM gallery_images WHERE owner_id = $1`, ownerID)
		}
		cleanPosts(t, env.DB, testSlug)
	})

	body, ct := editorFormWithFiles(t, map[string][]string{
		"title":          {"Post With Partial Upload"},
		"slug":           {testSlug},
		"category":       {"engineering"},
		"status":         {"draft"},
		"body":           {"A body with more than ten characters."},
		"image_local_id": {"img-1", "img-2"},
		"image_alt":      {"First image", "Second image"},
		"image_title":    {"First", "Second"},
	},
		formFile{name: "first.png", data: []byte{0x89, 'P', 'N', 'G'}},
		formFile{name: "second.png", data: []byte{0x89, 'P', 'N', 'G'}},
	)
	req := submitRequest(t, env, http.MethodPost, "/api/admin/posts", body, ct)

	rec := httptest.NewRecorder()
	admin.CreatePost(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("CreatePost: got status %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Record   models.Post           `json:"record"`
		Gallery  []models.GalleryImage `json:"gallery"`
		Warnings []string              `json:"warnings"`
	}
	decodeJSON(t, rec, &resp)
	ownerID = resp.Record.ID

	if len(resp.Warnings) != 1 || resp.Warnings[0] != "upload failed: second.png" {
		t.Errorf("warnings: got %v, want one for second.png", resp.Warnings)
	}
	if len(resp.Gallery) != 1 {
		t.Fatalf("gallery: got %d entries, want 1: %+v", len(resp.Gallery), resp.Gallery)
	}
	if !strings.HasPrefix(resp.Gallery[0].URL, "https://cdn.test/") {
		t.Errorf("gallery URL: got %q", resp.Gallery[0].URL)
	}
	if resp.Record.FeaturedImageURL == nil || *resp.Record.FeaturedImageURL != resp.Gallery[0].URL {
		t.Errorf("featured image: got %v, want %q", resp.Record.FeaturedImageURL, resp.Gallery[0].URL)
	}
	if fake.uploads != 2 {
		t.Errorf("uploads attempted: got %d, want 2", fake.uploads)
	}

	p, err := env.Posts.FindBySlug(testSlug)
	if err != nil || p == nil {
		t.Fatalf("post not persisted after partial upload failure: %v", err)
	}
}

func TestDeleteObjects_DerivesKeyFromURL(t *testing.T) {
	fake := &fakeStorage{}
	h := NewAdmin(nil, nil, nil, nil, nil, nil, fake, nil)

	thumbKey := "posts/thumb-old.webp"
	h.deleteObjects(context.Background(), []models.GalleryImage{
		{URL: "https://cdn.test/posts/legacy.png"},
		{URL: "https://elsewhere.example/img.png"},
		{URL: "https://cdn.test/posts/kept.png", S3Key: "posts/kept.png", ThumbS3Key: &thumbKey},
	})

	want := []string{"posts/legacy.png", "posts/kept.png", "posts/thumb-old.webp"}
	if strings.Join(fake.deleted, ",") != strings.Join(want, ",") {
		t.Errorf("deleted keys: got %v, want %v", fake.deleted, want)
	}
}

// --- Dashboard ---

func TestDashboard_ReportsCollectionCounts(t *testing.T) {
	env := newTestEnv(t)

	dashboard := func() map[string]int {
		t.Helper()
		rec := httptest.NewRecorder()
		env.Admin.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Dashboard: got status %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Counts map[string]int `json:"counts"`
		}
		decodeJSON(t, rec, &resp)
		return resp.Counts
	}

	before := dashboard()
	for _, key := range []string{"posts", "companies", "insights", "tags", "images"} {
		if _, ok := before[key]; !ok {
			t.Errorf("counts: missing %q in %v", key, before)
		}
	}

	testSlug := "handler-dashboard-" + uuid.New().String()[:8]
	t.Cleanup(func() { cleanPosts(t, env.DB, testSlug) })
	_, err := env.Posts.Create(&models.Post{
		Title:    "Dashboard Count Post",
		Slug:     testSlug,
		Category: "engineering",
		Status:   models.StatusDraft,
		Body:     "A body with more than ten characters.",
		AuthorID: testAuthorID(t, env.Users),
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	after := dashboard()
	if after["posts"] != before["posts"]+1 {
		t.Errorf("posts count: got %d, want %d", after["posts"], before["posts"]+1)
	}
}
