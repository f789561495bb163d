package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"legalens/constants"
	"legalens/internal/common"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("http.encode_error", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), map[string]any{"error": common.UserMessage(err)})
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnsupportedFormat),
		errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrNoAnalysis):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func invalidInput(message string) error {
	return common.NewAppError("INVALID_INPUT", message, common.ErrInvalidInput)
}

func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalidInput("malformed JSON body")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Server.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeError(w, invalidInput("file too large or malformed upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, invalidInput("no file provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeError(w, invalidInput("no file selected"))
		return
	}
	ext := filepath.Ext(header.Filename)
	if !constants.AllowedExt(ext) {
		s.writeError(w, common.NewAppError("UNSUPPORTED_FORMAT",
			"invalid file type, use PDF, DOCX, or TXT", common.ErrUnsupportedFormat))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, invalidInput("could not read upload"))
		return
	}

	filename := filepath.Base(header.Filename)
	uploadPath := filepath.Join(s.cfg.Server.UploadDir, filename)
	if err := os.MkdirAll(s.cfg.Server.UploadDir, 0o755); err != nil {
		s.writeError(w, common.WrapError(err, "save upload"))
		return
	}
	if err := os.WriteFile(uploadPath, data, 0o644); err != nil {
		s.writeError(w, common.WrapError(err, "save upload"))
		return
	}

	docName := strings.TrimSpace(r.FormValue("doc_name"))
	if docName == "" {
		docName = filename
	}

	doc, err := s.svc.LoadDocument(s.session(r), docName, uploadPath, data, ext)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"doc_name": docName,
		"length":   len(doc.Text),
		"message":  "Document loaded successfully",
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"documents": s.session(r).ListDocuments(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocName string `json:"doc_name"`
		Query   string `json:"query"`
	}
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.DocName == "" {
		s.writeError(w, invalidInput("doc_name is required"))
		return
	}

	sess := s.session(r)
	var (
		analysis string
		err      error
	)
	if req.Query != "" {
		analysis, err = s.svc.Ask(r.Context(), sess, req.DocName, req.Query)
	} else {
		analysis, err = s.svc.Analyze(r.Context(), sess, req.DocName)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": analysis,
	})
}

func (s *Server) handleConcerns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocName string `json:"doc_name"`
	}
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.DocName == "" {
		s.writeError(w, invalidInput("doc_name is required"))
		return
	}

	concerns, err := s.svc.Concerns(r.Context(), s.session(r), req.DocName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"concerns": concerns,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Doc1 string `json:"doc1"`
		Doc2 string `json:"doc2"`
	}
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Doc1 == "" || req.Doc2 == "" {
		s.writeError(w, invalidInput("two documents required"))
		return
	}

	comparison, err := s.svc.Compare(r.Context(), s.session(r), req.Doc1, req.Doc2)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"comparison": comparison,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		DocName string `json:"doc_name"`
	}
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, invalidInput("message is required"))
		return
	}

	reply, err := s.svc.Chat(r.Context(), s.session(r), req.Message, req.DocName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"response": reply,
	})
}

func (s *Server) handleSavePDF(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	// an empty body means default filename
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, invalidInput("malformed JSON body"))
		return
	}

	filename, err := s.export.SavePDF(s.session(r).CurrentAnalysis(), req.Filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"filename": filename,
		"message":  "PDF saved successfully",
	})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, invalidInput("malformed JSON body"))
		return
	}

	filename, err := s.export.SaveConcernsXLSX(s.session(r).Concerns(), req.Filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"filename": filename,
		"message":  "Workbook saved successfully",
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		s.writeError(w, invalidInput("invalid filename"))
		return
	}

	path := filepath.Join(s.export.OutputDir(), filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.writeError(w, common.NewAppError("NOT_FOUND", "file "+filename+" not found", common.ErrNotFound))
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	http.ServeFile(w, r, path)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session(r).ClearTurns()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Conversation cleared",
	})
}
