// internal/database/queries.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/source"
)

// Error definitions
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Project is a stored project record. Records carry generated stable
// IDs; positional order within the exported feed follows Position.
type Project struct {
	ID          string
	Title       string
	Description string
	Tech        []string
	Image       string
	Cover       string
	Source      string
	Details     string
	Position    int
}

// BlogPost is a stored blog post record.
type BlogPost struct {
	ID       string
	Title    string
	Excerpt  string
	Date     string
	Category string
	Image    string
	Cover    string
	ReadTime string
	Content  string
	Position int
}

// GetSetting retrieves a setting value
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?",
		key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting stores a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
        INSERT INTO settings (key, value, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET
            value = excluded.value,
            updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	return err
}

// ListProjects returns all projects in feed order.
func (db *DB) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, title, description, tech, image, cover, source, details, position
        FROM projects
        ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var tech sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &tech, &p.Image,
			&p.Cover, &p.Source, &p.Details, &p.Position); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		p.Tech = splitTech(tech.String)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project by ID.
func (db *DB) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	var tech sql.NullString
	err := db.QueryRowContext(ctx, `
        SELECT id, title, description, tech, image, cover, source, details, position
        FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.Description, &tech, &p.Image,
		&p.Cover, &p.Source, &p.Details, &p.Position)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Tech = splitTech(tech.String)
	return &p, nil
}

// SaveProject inserts a new project or updates an existing one. New
// records are assigned a generated ID and appended to the feed order.
func (db *DB) SaveProject(ctx context.Context, p *Project) error {
	if p.Title == "" {
		return ErrInvalidInput
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
		if err := db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), 0) + 1 FROM projects",
		).Scan(&p.Position); err != nil {
			return fmt.Errorf("error assigning position: %w", err)
		}
		_, err := db.ExecContext(ctx, `
            INSERT INTO projects (id, title, description, tech, image, cover, source, details, position)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Description, joinTech(p.Tech), p.Image, p.Cover, p.Source, p.Details, p.Position)
		return err
	}

	res, err := db.ExecContext(ctx, `
        UPDATE projects
        SET title = ?, description = ?, tech = ?, image = ?, cover = ?,
            source = ?, details = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`,
		p.Title, p.Description, joinTech(p.Tech), p.Image, p.Cover, p.Source, p.Details, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes a project by ID.
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

// ListBlogPosts returns all blog posts in feed order.
func (db *DB) ListBlogPosts(ctx context.Context) ([]BlogPost, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, title, excerpt, date, category, image, cover, read_time, content, position
        FROM blog_posts
        ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		var p BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Date, &p.Category,
			&p.Image, &p.Cover, &p.ReadTime, &p.Content, &p.Position); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetBlogPost returns a single blog post by ID.
func (db *DB) GetBlogPost(ctx context.Context, id string) (*BlogPost, error) {
	var p BlogPost
	err := db.QueryRowContext(ctx, `
        SELECT id, title, excerpt, date, category, image, cover, read_time, content, position
        FROM blog_posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.Excerpt, &p.Date, &p.Category,
		&p.Image, &p.Cover, &p.ReadTime, &p.Content, &p.Position)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveBlogPost inserts a new blog post or updates an existing one.
func (db *DB) SaveBlogPost(ctx context.Context, p *BlogPost) error {
	if p.Title == "" {
		return ErrInvalidInput
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
		if err := db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), 0) + 1 FROM blog_posts",
		).Scan(&p.Position); err != nil {
			return fmt.Errorf("error assigning position: %w", err)
		}
		_, err := db.ExecContext(ctx, `
            INSERT INTO blog_posts (id, title, excerpt, date, category, image, cover, read_time, content, position)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Excerpt, p.Date, p.Category, p.Image, p.Cover, p.ReadTime, p.Content, p.Position)
		return err
	}

	res, err := db.ExecContext(ctx, `
        UPDATE blog_posts
        SET title = ?, excerpt = ?, date = ?, category = ?, image = ?,
            cover = ?, read_time = ?, content = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`,
		p.Title, p.Excerpt, p.Date, p.Category, p.Image, p.Cover, p.ReadTime, p.Content, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlogPost removes a blog post by ID.
func (db *DB) DeleteBlogPost(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM blog_posts WHERE id = ?", id)
	return err
}

// ExportContent assembles the main feed document from the store. This
// is what /data.json serves to sibling deployments.
func (db *DB) ExportContent(ctx context.Context) (source.Content, error) {
	projects, err := db.ListProjects(ctx)
	if err != nil {
		return source.Content{}, fmt.Errorf("error listing projects: %w", err)
	}
	posts, err := db.ListBlogPosts(ctx)
	if err != nil {
		return source.Content{}, fmt.Errorf("error listing blog posts: %w", err)
	}

	doc := source.Content{
		Projects:  make([]source.Project, 0, len(projects)),
		BlogPosts: make([]source.BlogPost, 0, len(posts)),
	}
	for _, p := range projects {
		doc.Projects = append(doc.Projects, source.Project{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Tech:        p.Tech,
			Image:       p.Image,
			Cover:       p.Cover,
			Source:      p.Source,
			Details:     p.Details,
		})
	}
	for _, p := range posts {
		doc.BlogPosts = append(doc.BlogPosts, source.BlogPost{
			ID:       p.ID,
			Title:    p.Title,
			Excerpt:  p.Excerpt,
			Date:     p.Date,
			Category: p.Category,
			Image:    p.Image,
			Cover:    p.Cover,
			ReadTime: p.ReadTime,
			Content:  p.Content,
		})
	}
	return doc, nil
}

// joinTech serializes the tag list the way the admin form edits it.
func joinTech(tech []string) string {
	return strings.Join(tech, ",")
}

func splitTech(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
