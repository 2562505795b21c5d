// internal/server/handlers.go
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/rss"
	"portfolio/internal/stats"
	"portfolio/internal/view"
)

// IndexData feeds the single-page template: all three presentations
// plus the stats block and the contact form state.
type IndexData struct {
	Projects       view.ProjectGalleryView
	Blog           view.BlogGalleryView
	Pricing        []view.PlanCard
	Stats          *stats.Profile
	ContactMessage string
	Alert          string
	AlertOK        bool
	Year           int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	contactMessage := ""
	if plan := r.URL.Query().Get("plan"); plan != "" {
		contactMessage = view.PlanPrefill(plan)
	}
	s.renderIndex(w, r, contactMessage, "", false)
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, contactMessage, alert string, alertOK bool) {
	ctx := r.Context()
	content := s.resolver.Content(ctx)
	plans := s.resolver.Pricing(ctx)

	data := IndexData{
		Projects:       view.ProjectGallery(content.Projects, r.URL.Query()["tech"]),
		Blog:           view.BlogGallery(content.BlogPosts),
		Pricing:        view.PricingGrid(plans),
		Stats:          s.stats.Get(ctx),
		ContactMessage: contactMessage,
		Alert:          alert,
		AlertOK:        alertOK,
		Year:           time.Now().Year(),
	}

	if err := s.renderTemplate(w, r, "index.html", data); err != nil {
		s.logger.Printf("Error rendering index template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleProjectDetail shows one project's modal-styled detail page. An
// unparseable or out-of-range index is a no-op: back to the gallery.
func (s *Server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Redirect(w, r, "/#projects", http.StatusSeeOther)
		return
	}

	content := s.resolver.Content(r.Context())
	detail, ok := s.composer.ProjectDetail(r.Context(), content.Projects, index)
	if !ok {
		http.Redirect(w, r, "/#projects", http.StatusSeeOther)
		return
	}

	if err := s.renderTemplate(w, r, "project.html", detail); err != nil {
		s.logger.Printf("Error rendering project template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) handleBlogDetail(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Redirect(w, r, "/#blog", http.StatusSeeOther)
		return
	}

	content := s.resolver.Content(r.Context())
	detail, ok := s.composer.BlogDetail(content.BlogPosts, index)
	if !ok {
		http.Redirect(w, r, "/#blog", http.StatusSeeOther)
		return
	}

	if err := s.renderTemplate(w, r, "blog.html", detail); err != nil {
		s.logger.Printf("Error rendering blog template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleDataExport serves the main feed assembled from the store. A
// sibling deployment's resolver consumes this as its remote origin.
func (s *Server) handleDataExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.db.ExportContent(r.Context())
	if err != nil {
		s.logger.Printf("Error exporting content: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "failed to export content")
		return
	}
	RespondWithJSON(w, http.StatusOK, doc)
}

// handlePricingExport serves the pricing file from the data directory,
// validating it is well-formed JSON first.
func (s *Server) handlePricingExport(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(filepath.Join(s.config.DataPath, "pricing.json"))
	if err != nil {
		RespondWithError(w, http.StatusNotFound, "pricing.json not found")
		return
	}
	if !json.Valid(data) {
		RespondWithError(w, http.StatusInternalServerError, "invalid JSON format")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	content := s.resolver.Content(r.Context())
	feed := rss.Build(s.config.SiteTitle, s.config.SiteURL, content.BlogPosts)
	out, err := feed.Encode()
	if err != nil {
		s.logger.Printf("Error encoding RSS feed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(out)
}

type contactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleContact relays a submission to the upstream contact endpoint.
// This is the only failure path that reaches the visitor directly.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	payload, err := parseContact(r)
	if err != nil {
		s.renderIndex(w, r, "", "Error: missing required fields", false)
		return
	}

	if err := s.relayContact(r, payload); err != nil {
		s.renderIndex(w, r, payload.Message, fmt.Sprintf("Error: %v", err), false)
		return
	}

	s.renderIndex(w, r, "", "Message sent successfully! I will get back to you soon.", true)
}

// parseContact accepts either a JSON body or a form post, the way the
// original endpoint did.
func parseContact(r *http.Request) (contactPayload, error) {
	var payload contactPayload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return payload, fmt.Errorf("error decoding contact payload: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return payload, fmt.Errorf("error parsing contact form: %w", err)
		}
		payload.Name = r.FormValue("name")
		payload.Email = r.FormValue("email")
		payload.Message = r.FormValue("message")
	}

	if payload.Name == "" || payload.Email == "" || payload.Message == "" {
		return payload, fmt.Errorf("missing required fields")
	}
	return payload, nil
}

func (s *Server) relayContact(r *http.Request, payload contactPayload) error {
	if s.config.ContactURL == "" {
		return fmt.Errorf("contact endpoint not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding contact payload: %w", err)
	}

	req, err := http.NewRequestWithContext(r.Context(), "POST", s.config.ContactURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	var result contactResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("error decoding contact response: %w", err)
	}
	if !result.Success {
		if result.Error != "" {
			return fmt.Errorf("%s", result.Error)
		}
		return fmt.Errorf("failed to send message")
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handle404(w http.ResponseWriter, r *http.Request) {
	s.logger.Printf("404 error for path: %s", r.URL.Path)
	if err := s.renderTemplateStatus(w, r, http.StatusNotFound, "404.html", nil); err != nil {
		s.logger.Printf("Error rendering 404 template: %v", err)
		http.Error(w, "404 Page Not Found", http.StatusNotFound)
	}
}
