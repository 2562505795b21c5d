// internal/server/server.go
package server

import (
	"context"
	"html/template"
	"log"
	"net/http"

	"portfolio/internal/auth"
	"portfolio/internal/database"
	"portfolio/internal/source"
	"portfolio/internal/stats"
	"portfolio/internal/view"
)

type Config struct {
	UseHTTPS   bool
	SiteTitle  string
	SiteURL    string // public base URL, no trailing slash
	ContactURL string // upstream contact endpoint
	DataPath   string
}

type Server struct {
	db            *database.DB
	logger        *log.Logger
	resolver      *source.Resolver
	composer      *view.Composer
	stats         *stats.Service
	csrf          *CSRF
	config        Config
	templateCache map[string]*template.Template
}

func NewServer(db *database.DB, logger *log.Logger, resolver *source.Resolver, statsSvc *stats.Service, config Config) (*Server, error) {
	csrfConfig := DefaultCSRFConfig()
	csrfConfig.Secure = config.UseHTTPS

	if config.SiteTitle == "" {
		config.SiteTitle = "Portfolio"
	}

	s := &Server{
		db:       db,
		logger:   logger,
		resolver: resolver,
		composer: view.NewComposer(logger, siteHost(config.SiteURL)),
		stats:    statsSvc,
		csrf:     NewCSRF(csrfConfig),
		config:   config,
	}

	if err := s.loadTemplates(); err != nil {
		return nil, err
	}

	if err := auth.CleanExpiredSessions(db.DB); err != nil {
		logger.Printf("Error cleaning expired sessions: %v", err)
	}

	return s, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /projects/{index}", s.handleProjectDetail)
	mux.HandleFunc("GET /blog/{index}", s.handleBlogDetail)
	mux.HandleFunc("GET /data.json", s.handleDataExport)
	mux.HandleFunc("GET /pricing.json", s.handlePricingExport)
	mux.HandleFunc("GET /rss.xml", s.handleRSS)
	mux.HandleFunc("POST /contact", s.handleContact)

	mux.HandleFunc("/setup", s.handleSetup)
	mux.HandleFunc("/admin/login", s.handleLogin)
	mux.HandleFunc("GET /admin/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /admin", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("/admin/projects/new", s.requireAuth(s.handleProjectForm))
	mux.HandleFunc("/admin/projects/edit", s.requireAuth(s.handleProjectForm))
	mux.HandleFunc("POST /admin/projects/delete", s.requireAuth(s.handleProjectDelete))
	mux.HandleFunc("/admin/posts/new", s.requireAuth(s.handlePostForm))
	mux.HandleFunc("/admin/posts/edit", s.requireAuth(s.handlePostForm))
	mux.HandleFunc("POST /admin/posts/delete", s.requireAuth(s.handlePostDelete))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			s.handle404(w, r)
			return
		}
		s.handleIndex(w, r)
	})

	return s.securityHeaders(s.requestLogger(mux))
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		session, err := auth.ValidateSession(s.db.DB, cookie.Value)
		if err != nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), contextKeyUserID, session.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Printf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
	})
}

func (s *Server) Start(addr string) error {
	s.logger.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}
