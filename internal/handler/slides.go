package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/kdduha/slidegen/internal/models"
	"github.com/kdduha/slidegen/internal/templates"
)

type slideGenerator interface {
	Generate(ctx context.Context, req *models.SlideGenerationRequest) (*models.SlideGenerationResponse, error)
}

type templateCatalog interface {
	List() []templates.PromptTemplate
	Get(id string) (templates.PromptTemplate, error)
	ValidateVariables(id string, vars map[string]string) (templates.ValidationResult, error)
}

type SlidesHandler struct {
	logger    *slog.Logger
	generator slideGenerator
	templates templateCatalog
}

func NewSlidesHandler(logger *slog.Logger, generator slideGenerator, catalog templateCatalog) *SlidesHandler {
	return &SlidesHandler{
		logger:    logger,
		generator: generator,
		templates: catalog,
	}
}

// ValidateVariablesRequest carries the variables to check against a template
type ValidateVariablesRequest struct {
	Variables map[string]string `json:"variables"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Generate godoc
// @Summary Generate slide deck
// @Description Generate a Markdown slide deck for a topic. The API key may be sent in the body or as a Bearer token.
// @Tags slides
// @Accept json
// @Produce json
// @Param request body models.SlideGenerationRequest true "Slide generation request"
// @Success 200 {object} models.SlideGenerationResponse
// @Failure 400 {object} models.GenerationError
// @Failure 401 {object} models.GenerationError
// @Failure 429 {object} models.GenerationError
// @Failure 502 {object} models.GenerationError
// @Router /slides [post]
func (h *SlidesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.SlideGenerationRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, models.NewValidationError(fmt.Sprintf("invalid JSON: %s", err), nil))
		return
	}

	if req.APIKey == "" {
		req.APIKey = bearerToken(r)
	}

	resp, err := h.generator.Generate(r.Context(), &req)
	if err != nil {
		var genErr *models.GenerationError
		if errors.As(err, &genErr) {
			h.writeJSON(w, genErr.HTTPStatus(), genErr)
			return
		}
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// ListTemplates godoc
// @Summary List prompt templates
// @Tags templates
// @Produce json
// @Success 200 {array} templates.PromptTemplate
// @Router /templates [get]
func (h *SlidesHandler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.templates.List())
}

// GetTemplate godoc
// @Summary Get prompt template
// @Tags templates
// @Produce json
// @Param id path string true "Template id"
// @Success 200 {object} templates.PromptTemplate
// @Failure 404 {object} map[string]string
// @Router /templates/{id} [get]
func (h *SlidesHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.templates.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeTemplateError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tpl)
}

// ValidateVariables godoc
// @Summary Validate template variables
// @Description Report required template variables that are missing or blank.
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template id"
// @Param request body ValidateVariablesRequest true "Variables"
// @Success 200 {object} templates.ValidationResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /templates/{id}/validate [post]
func (h *SlidesHandler) ValidateVariables(w http.ResponseWriter, r *http.Request) {
	var req ValidateVariablesRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid JSON: %s", err)})
		return
	}

	res, err := h.templates.ValidateVariables(chi.URLParam(r, "id"), req.Variables)
	if err != nil {
		h.writeTemplateError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *SlidesHandler) writeTemplateError(w http.ResponseWriter, err error) {
	if errors.Is(err, templates.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (h *SlidesHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		http.Error(w, fmt.Sprintf("failed to encode: %s", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}
