package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"log/slog"

	"legalens/internal/common"
	"legalens/internal/export"
	"legalens/internal/session"
	"legalens/internal/simplifier"
)

// Server wires the HTTP routes to the simplifier and export services. The
// handlers are thin: request decoding, session selection and error mapping
// only.
type Server struct {
	cfg      *common.Config
	svc      *simplifier.Service
	export   *export.Service
	sessions *session.Manager
	logger   *slog.Logger
}

func New(cfg *common.Config, svc *simplifier.Service, exp *export.Service, sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		svc:      svc,
		export:   exp,
		sessions: sessions,
		logger:   logger,
	}
}

// Router builds the mux router with middleware and all API routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(s.logger))
	r.Use(Recoverer(s.logger))
	r.Use(CORS)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/documents", s.handleListDocuments).Methods(http.MethodGet)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/concerns", s.handleConcerns).Methods(http.MethodPost)
	api.HandleFunc("/compare", s.handleCompare).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	api.HandleFunc("/save-pdf", s.handleSavePDF).Methods(http.MethodPost)
	api.HandleFunc("/export-xlsx", s.handleExportXLSX).Methods(http.MethodPost)
	api.HandleFunc("/download/{filename}", s.handleDownload).Methods(http.MethodGet)
	api.HandleFunc("/clear", s.handleClear).Methods(http.MethodPost)

	return r
}

// session resolves the caller's session from the X-Session-ID header the
// middleware stashed on the context; absent or empty means the shared default
// session.
func (s *Server) session(r *http.Request) *session.Session {
	id := common.SessionIDFromContext(r.Context())
	if id == "" {
		id = r.Header.Get("X-Session-ID")
	}
	return s.sessions.Get(id)
}
