// Package http serves the dashboard pages and form endpoints.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"cashbook/internal/gateway"
	"cashbook/internal/services"
	appweb "cashbook/web"
)

type Server struct {
	http.Server
	templates *template.Template
	gw        *gateway.Gateway
	// service is non-nil on the sqlite backend, where entry writes also
	// queue an export. Other backends write through the gateway.
	service     *services.CollectionService
	configError string
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. configError is non-empty when the store credentials are
// missing or placeholders; pages then render a banner and writes are
// refused.
func NewServer(addr string, gw *gateway.Gateway, svc *services.CollectionService, configError string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		gw:          gw,
		service:     svc,
		configError: configError,
		rateLimiter: newRateLimiter(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// Pages
	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/collections", s.withSecurityHeaders(s.handleCollections))
	mux.HandleFunc("/master-data", s.withSecurityHeaders(s.handleMasterData))
	mux.HandleFunc("/reports", s.withSecurityHeaders(s.handleReports))
	mux.HandleFunc("/profile", s.withSecurityHeaders(s.handleProfile))

	// UI partials
	mux.HandleFunc("/ui/party-search", s.withSecurityHeaders(s.handlePartySearch))

	// Form endpoints
	mux.HandleFunc("/entries", s.withSecurityHeaders(s.handleCreateEntry))
	mux.HandleFunc("/entries/delete", s.withSecurityHeaders(s.handleDeleteEntry))
	mux.HandleFunc("/parties", s.withSecurityHeaders(s.handleCreateParty))
	mux.HandleFunc("/parties/delete", s.withSecurityHeaders(s.handleDeleteParty))

	// Downloads
	mux.HandleFunc("/export/self.csv", s.withSecurityHeaders(s.handleExportSelf))
	mux.HandleFunc("/export/bank.csv", s.withSecurityHeaders(s.handleExportBank))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// writesDisabled reports whether write endpoints should refuse requests.
func (s *Server) writesDisabled() bool {
	return s.configError != ""
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
