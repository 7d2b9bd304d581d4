// Package httpapi exposes the vault over a JSON HTTP API.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/dmitrijs2005/filevault/internal/server/vault"
)

// Server ties the vault and user services to HTTP routes.
type Server struct {
	vault         *vault.Service
	users         *services.UserService
	logger        logging.Logger
	maxUploadSize int64
	jwtSecret     []byte
}

func NewServer(v *vault.Service, us *services.UserService, cfg *config.Config, logger logging.Logger) *Server {
	return &Server{
		vault:         v,
		users:         us,
		logger:        logger.With("component", "httpapi"),
		maxUploadSize: cfg.MaxUploadSize,
		jwtSecret:     []byte(cfg.SecretKey),
	}
}

// Handler builds the full routing table with middleware applied. Routes under
// /api/files require a valid access token.
func (s *Server) Handler() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("POST /api/register", s.handleRegister)
	public.HandleFunc("POST /api/login", s.handleLogin)
	public.HandleFunc("POST /api/refresh", s.handleRefresh)

	private := http.NewServeMux()
	private.HandleFunc("POST /api/files", s.handleUploadFile)
	private.HandleFunc("GET /api/files", s.handleListFiles)
	private.HandleFunc("GET /api/files/{id}", s.handleDownloadFile)
	private.HandleFunc("DELETE /api/files/{id}", s.handleDeleteFile)
	private.HandleFunc("POST /api/files/{id}/share", s.handleShareFile)
	private.HandleFunc("DELETE /api/files/{id}/share/{username}", s.handleUnshareFile)

	authMw := NewAuthMiddleware(s.jwtSecret)
	public.Handle("/api/files", authMw.RequireAuth(private))
	public.Handle("/api/files/", authMw.RequireAuth(private))

	logMw := NewLoggingMiddleware(s.logger)
	return logMw.LogRequest(public)
}
