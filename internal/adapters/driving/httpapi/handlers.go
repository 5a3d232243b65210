package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// maxUploadMemory bounds the in-memory portion of a multipart parse;
// larger bodies spill to temp files.
const maxUploadMemory = 32 << 20

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	originalFilename := r.FormValue("original_filename")
	if originalFilename == "" {
		originalFilename = header.Filename
	}

	req := driving.UploadRequest{
		OriginalFilename: originalFilename,
		Content:          file,
		Embedding:        embeddingOverride(r),
		LLM:              llmOverride(r),
	}

	result, err := s.uploads.Process(r.Context(), req)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// embeddingOverride builds per-upload embedding settings from form fields.
// Returns nil when no override fields are present.
func embeddingOverride(r *http.Request) *domain.EmbeddingSettings {
	provider := r.FormValue("embedding_provider")
	model := r.FormValue("embedding_model")
	if provider == "" && model == "" {
		return nil
	}
	return &domain.EmbeddingSettings{
		Provider: domain.AIProvider(provider),
		Model:    model,
		BaseURL:  r.FormValue("embedding_base_url"),
		APIKey:   r.FormValue("embedding_api_key"),
	}
}

// llmOverride builds per-upload LLM settings from form fields.
func llmOverride(r *http.Request) *domain.LLMSettings {
	provider := r.FormValue("llm_provider")
	model := r.FormValue("llm_model")
	if provider == "" && model == "" {
		return nil
	}
	return &domain.LLMSettings{
		Provider: domain.AIProvider(provider),
		Model:    model,
		BaseURL:  r.FormValue("llm_base_url"),
		APIKey:   r.FormValue("llm_api_key"),
	}
}

// writeUploadError maps pipeline failures to HTTP statuses. Provider detail
// is logged but never echoed to the client.
func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDocumentLoad):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrModelUnavailable),
		errors.Is(err, domain.ErrProviderTimeout):
		logger.Error("upload failed: %v", err)
		writeError(w, http.StatusBadGateway, "model backend unavailable")
	default:
		logger.Error("upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "upload processing failed")
	}
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var question domain.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := s.answers.Answer(r.Context(), question)
	if err != nil {
		writeAnswerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// writeAnswerError maps answering failures to HTTP statuses. Not-ready is a
// routine first-use condition and gets a fixed, user-facing message.
func writeAnswerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotReady):
		writeError(w, http.StatusBadRequest, domain.ErrNotReady.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("answer failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to answer question")
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.metrics.Metrics(r.Context())
	if err != nil {
		logger.Error("metrics failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load metrics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"evaluations": metrics.Evaluations,
		"hit_rate":    metrics.HitRate,
		"mrr":         metrics.MRR,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response: %v", err)
	}
}

// writeError writes a JSON error body. The message is trimmed of wrapped
// error prefixes the client has no use for.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: strings.TrimSpace(message)})
}
