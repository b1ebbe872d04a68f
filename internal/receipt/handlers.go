package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// multipartOverhead is allowed on top of the image limit for form boundaries and headers
const multipartOverhead = 1 << 20

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// handleHealth reports whether the service can accept receipts
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "expense-parser",
		"ocr_ready": s.service.Ready(),
	})
}

// handleParseReceipt parses an uploaded receipt image
func (s *Server) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context())
	maxImage := s.service.Limits().MaxImageBytes

	// Bodies up to twice the image limit are read; the service rejects oversized files itself
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxImage+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logger.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, tooLargeMessage(maxImage))
			return
		}
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		logger.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "No file was provided in the \"file\" field")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromFilename(header.Filename)
	}

	result, err := s.service.ParseReceipt(r.Context(), data, contentType)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, ErrEngineUnavailable):
			writeError(w, http.StatusServiceUnavailable, "Text recognition is unavailable. Please try again later.")
		default:
			logger.Error("Error parsing receipt", "filename", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Receipt processing failed. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// contentTypeFromFilename guesses a MIME type for uploads sent without one.
// Unknown extensions yield "" so the service sniffs the data instead.
func contentTypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return ""
	}
}
