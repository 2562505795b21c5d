// internal/server/templates.go
package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

//go:embed web/templates web/static
var rawContent embed.FS

// Virtual filesystems for templates and static assets.
var (
	templatesContent fs.FS
	staticContent    fs.FS
)

func init() {
	var err error
	templatesContent, err = fs.Sub(rawContent, "web/templates")
	if err != nil {
		panic(fmt.Sprintf("failed to create templates filesystem: %v", err))
	}
	staticContent, err = fs.Sub(rawContent, "web/static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
}

func (s *Server) registerTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

// loadTemplates parses every embedded template once and caches it keyed
// by its path relative to the templates directory.
func (s *Server) loadTemplates() error {
	cache := make(map[string]*template.Template)
	funcMap := s.registerTemplateFuncs()

	err := fs.WalkDir(templatesContent, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		name := filepath.ToSlash(path)
		tmpl, err := template.New(d.Name()).Funcs(funcMap).ParseFS(templatesContent, path)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		cache[name] = tmpl
		return nil
	})
	if err != nil {
		return fmt.Errorf("error walking templates: %w", err)
	}

	s.templateCache = cache
	s.logger.Printf("Loaded %d templates", len(cache))
	return nil
}

func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) error {
	return s.renderTemplateStatus(w, r, http.StatusOK, name, data)
}

// renderTemplateStatus executes into a buffer first so the CSRF cookie
// and Content-Type land before the status code is written.
func (s *Server) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any) error {
	tmpl, ok := s.templateCache[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	wrapped := struct {
		Data      any
		CSRFToken string
		SiteTitle string
	}{
		Data:      data,
		CSRFToken: s.csrf.Token(w, r),
		SiteTitle: s.config.SiteTitle,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, wrapped); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// siteHost extracts the host from the configured public base URL.
func siteHost(siteURL string) string {
	u, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}
	return u.Host
}
