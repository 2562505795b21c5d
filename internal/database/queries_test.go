package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

// setupTestDB creates a database in a temp directory using NewDB so the
// schema and pragmas match production.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.GetSetting(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing key, got %v", err)
	}

	if err := db.SetSetting(ctx, "site_title", "My Portfolio"); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}
	if got, err := db.GetSetting(ctx, "site_title"); err != nil || got != "My Portfolio" {
		t.Errorf("Got %q, %v", got, err)
	}

	// Upsert replaces.
	if err := db.SetSetting(ctx, "site_title", "Renamed"); err != nil {
		t.Fatalf("Failed to update setting: %v", err)
	}
	if got, _ := db.GetSetting(ctx, "site_title"); got != "Renamed" {
		t.Errorf("Expected updated value, got %q", got)
	}
}

func TestProjectCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	p := &Project{
		Title:       "Scanner",
		Description: "Scans things",
		Tech:        []string{"go", "sqlite"},
		Image:       "/static/scanner.png",
		Source:      "https://github.com/user/scanner",
	}
	if err := db.SaveProject(ctx, p); err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}
	if p.ID == "" {
		t.Fatal("Expected a generated ID")
	}
	if p.Position != 1 {
		t.Errorf("Expected first position 1, got %d", p.Position)
	}

	second := &Project{Title: "Parser"}
	if err := db.SaveProject(ctx, second); err != nil {
		t.Fatalf("Failed to save second project: %v", err)
	}
	if second.Position != 2 {
		t.Errorf("Expected appended position 2, got %d", second.Position)
	}

	got, err := db.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("Failed to get project: %v", err)
	}
	if got.Title != "Scanner" || !reflect.DeepEqual(got.Tech, []string{"go", "sqlite"}) {
		t.Errorf("Loaded project mismatch: %+v", got)
	}

	got.Description = "Scans more things"
	got.Tech = []string{"go"}
	if err := db.SaveProject(ctx, got); err != nil {
		t.Fatalf("Failed to update project: %v", err)
	}
	updated, _ := db.GetProject(ctx, p.ID)
	if updated.Description != "Scans more things" || len(updated.Tech) != 1 {
		t.Errorf("Update not persisted: %+v", updated)
	}

	list, err := db.ListProjects(ctx)
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Scanner" || list[1].Title != "Parser" {
		t.Errorf("Unexpected list order: %+v", list)
	}

	if err := db.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("Failed to delete project: %v", err)
	}
	if _, err := db.GetProject(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestSaveProjectValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveProject(ctx, &Project{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty title, got %v", err)
	}
	if err := db.SaveProject(ctx, &Project{ID: "nope", Title: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating unknown ID, got %v", err)
	}
}

func TestBlogPostCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	p := &BlogPost{
		Title:    "First Post",
		Excerpt:  "An excerpt",
		Date:     "March 1, 2026",
		Category: "notes",
		ReadTime: "4 min",
		Content:  "<p>Body.</p>",
	}
	if err := db.SaveBlogPost(ctx, p); err != nil {
		t.Fatalf("Failed to save post: %v", err)
	}
	if p.ID == "" || p.Position != 1 {
		t.Errorf("New post not initialized: %+v", p)
	}

	got, err := db.GetBlogPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("Failed to get post: %v", err)
	}
	if got.Content != "<p>Body.</p>" || got.ReadTime != "4 min" {
		t.Errorf("Loaded post mismatch: %+v", got)
	}

	got.Title = "Renamed Post"
	if err := db.SaveBlogPost(ctx, got); err != nil {
		t.Fatalf("Failed to update post: %v", err)
	}
	if updated, _ := db.GetBlogPost(ctx, p.ID); updated.Title != "Renamed Post" {
		t.Errorf("Update not persisted: %+v", updated)
	}

	if err := db.DeleteBlogPost(ctx, p.ID); err != nil {
		t.Fatalf("Failed to delete post: %v", err)
	}
	if _, err := db.GetBlogPost(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestExportContent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two"} {
		if err := db.SaveProject(ctx, &Project{Title: title, Tech: []string{"go"}}); err != nil {
			t.Fatalf("Failed to save project %s: %v", title, err)
		}
	}
	if err := db.SaveBlogPost(ctx, &BlogPost{Title: "Post"}); err != nil {
		t.Fatalf("Failed to save post: %v", err)
	}

	doc, err := db.ExportContent(ctx)
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	if len(doc.Projects) != 2 || len(doc.BlogPosts) != 1 {
		t.Fatalf("Unexpected export shape: %d projects, %d posts",
			len(doc.Projects), len(doc.BlogPosts))
	}
	if doc.Projects[0].Title != "One" || doc.Projects[1].Title != "Two" {
		t.Errorf("Export lost feed order: %+v", doc.Projects)
	}
	if doc.Projects[0].ID == "" {
		t.Error("Export dropped record IDs")
	}
}

func TestExportContentEmpty(t *testing.T) {
	db := setupTestDB(t)

	doc, err := db.ExportContent(context.Background())
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	// Empty slices, not nil: the JSON must contain both keys.
	if doc.Projects == nil || doc.BlogPosts == nil {
		t.Errorf("Expected non-nil empty sequences: %+v", doc)
	}
}

func TestSplitTech(t *testing.T) {
	cases := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"go", []string{"go"}},
		{"go, rust , js", []string{"go", "rust", "js"}},
		{"go,,rust", []string{"go", "rust"}},
	}
	for _, tc := range cases {
		if got := splitTech(tc.input); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("splitTech(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}
