// internal/server/admin_handlers.go
package server

import (
	"errors"
	"net/http"
	"strings"

	"portfolio/internal/auth"
	"portfolio/internal/database"
)

// AdminPageData backs the dashboard template.
type AdminPageData struct {
	Projects []database.Project
	Posts    []database.BlogPost
}

// handleSetup creates the first admin account. Once one exists the
// route permanently redirects to the login page.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	hasUsers, err := auth.HasUsers(s.db.DB)
	if err != nil {
		s.logger.Printf("Error checking for admin users: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if hasUsers {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		if !s.csrf.Validate(w, r) {
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || len(password) < 8 {
			s.renderAdminPage(w, r, "admin/setup.html", "Username required and password must be at least 8 characters")
			return
		}
		if err := auth.CreateUser(s.db.DB, username, password); err != nil {
			s.logger.Printf("Error creating admin user: %v", err)
			s.renderAdminPage(w, r, "admin/setup.html", "Failed to create admin user")
			return
		}
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	s.renderAdminPage(w, r, "admin/setup.html", "")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if !s.csrf.Validate(w, r) {
			return
		}
		username := r.FormValue("username")
		password := r.FormValue("password")

		session, err := auth.Authenticate(s.db.DB, username, password)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				s.logger.Printf("Error authenticating %s: %v", username, err)
			}
			s.renderAdminPage(w, r, "admin/login.html", "Invalid credentials")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.config.UseHTTPS,
			SameSite: http.SameSiteStrictMode,
			Expires:  session.ExpiresAt,
		})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	s.renderAdminPage(w, r, "admin/login.html", "")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		if err := auth.InvalidateSession(s.db.DB, cookie.Value); err != nil {
			s.logger.Printf("Error invalidating session: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.ListProjects(r.Context())
	if err != nil {
		s.logger.Printf("Error listing projects: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	posts, err := s.db.ListBlogPosts(r.Context())
	if err != nil {
		s.logger.Printf("Error listing blog posts: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := AdminPageData{Projects: projects, Posts: posts}
	if err := s.renderTemplate(w, r, "admin/dashboard.html", data); err != nil {
		s.logger.Printf("Error rendering dashboard template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleProjectForm serves the add/edit form and accepts its submission.
func (s *Server) handleProjectForm(w http.ResponseWriter, r *http.Request) {
	var project database.Project
	if id := r.URL.Query().Get("id"); id != "" {
		p, err := s.db.GetProject(r.Context(), id)
		if err != nil {
			// Unknown ID goes back to the dashboard, as the original did
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		project = *p
	}

	if r.Method == http.MethodPost {
		if !s.csrf.Validate(w, r) {
			return
		}
		project.Title = r.FormValue("title")
		project.Description = r.FormValue("description")
		project.Tech = splitCommaList(r.FormValue("tech"))
		project.Image = r.FormValue("image")
		project.Cover = r.FormValue("cover")
		project.Source = r.FormValue("source")
		project.Details = r.FormValue("details")

		if err := s.db.SaveProject(r.Context(), &project); err != nil {
			s.logger.Printf("Error saving project: %v", err)
			s.renderProjectForm(w, r, project, "Failed to save project")
			return
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	s.renderProjectForm(w, r, project, "")
}

func (s *Server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	if !s.csrf.Validate(w, r) {
		return
	}
	if err := s.db.DeleteProject(r.Context(), r.FormValue("id")); err != nil {
		s.logger.Printf("Error deleting project: %v", err)
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handlePostForm(w http.ResponseWriter, r *http.Request) {
	var post database.BlogPost
	if id := r.URL.Query().Get("id"); id != "" {
		p, err := s.db.GetBlogPost(r.Context(), id)
		if err != nil {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		post = *p
	}

	if r.Method == http.MethodPost {
		if !s.csrf.Validate(w, r) {
			return
		}
		post.Title = r.FormValue("title")
		post.Excerpt = r.FormValue("excerpt")
		post.Date = r.FormValue("date")
		post.Category = r.FormValue("category")
		post.Image = r.FormValue("image")
		post.Cover = r.FormValue("cover")
		post.ReadTime = r.FormValue("readTime")
		post.Content = r.FormValue("content")

		if err := s.db.SaveBlogPost(r.Context(), &post); err != nil {
			s.logger.Printf("Error saving blog post: %v", err)
			s.renderPostForm(w, r, post, "Failed to save blog post")
			return
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	s.renderPostForm(w, r, post, "")
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	if !s.csrf.Validate(w, r) {
		return
	}
	if err := s.db.DeleteBlogPost(r.Context(), r.FormValue("id")); err != nil {
		s.logger.Printf("Error deleting blog post: %v", err)
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) renderAdminPage(w http.ResponseWriter, r *http.Request, name, errorMessage string) {
	data := struct{ Error string }{Error: errorMessage}
	if err := s.renderTemplate(w, r, name, data); err != nil {
		s.logger.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) renderProjectForm(w http.ResponseWriter, r *http.Request, project database.Project, errorMessage string) {
	data := struct {
		Project database.Project
		Tech    string
		Error   string
	}{Project: project, Tech: strings.Join(project.Tech, ", "), Error: errorMessage}
	if err := s.renderTemplate(w, r, "admin/project_form.html", data); err != nil {
		s.logger.Printf("Error rendering project form: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) renderPostForm(w http.ResponseWriter, r *http.Request, post database.BlogPost, errorMessage string) {
	data := struct {
		Post  database.BlogPost
		Error string
	}{Post: post, Error: errorMessage}
	if err := s.renderTemplate(w, r, "admin/post_form.html", data); err != nil {
		s.logger.Printf("Error rendering post form: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// splitCommaList parses the admin form's comma-separated tech field.
func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
