package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/service"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/pagination"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/validator"
)

// MartialArtHandler handles HTTP requests for the catalog endpoints.
type MartialArtHandler struct {
	service *service.MartialArtService
	logger  *slog.Logger
}

// NewMartialArtHandler creates a new catalog HTTP handler.
func NewMartialArtHandler(svc *service.MartialArtService, logger *slog.Logger) *MartialArtHandler {
	return &MartialArtHandler{service: svc, logger: logger}
}

// MartialArtRequest is the JSON request body for creating or updating a
// catalog entry. Field names follow the public API contract, which is in
// Spanish.
type MartialArtRequest struct {
	Name            string   `json:"nombre" validate:"required,min=1,max=200"`
	CountryOfOrigin string   `json:"paisProcedencia" validate:"omitempty,max=100"`
	AgeOfOrigin     string   `json:"edadOrigen" validate:"omitempty,max=100"`
	Type            string   `json:"tipo" validate:"omitempty,max=100"`
	Distances       []string `json:"distanciasTrabajadas"`
	Weapons         []string `json:"armas"`
	ContactType     string   `json:"tipoContacto" validate:"omitempty,max=100"`
	Focus           string   `json:"focus" validate:"omitempty,max=200"`
	Strengths       []string `json:"fortalezas"`
	Weaknesses      []string `json:"debilidades"`
	PhysicalDemands string   `json:"demandasFisicas" validate:"omitempty,max=200"`
	Techniques      []string `json:"tecnicas"`
	Philosophy      string   `json:"filosofia"`
	History         string   `json:"historia"`
	Images          []string `json:"imagenes" validate:"omitempty,dive,url"`
}

func (req *MartialArtRequest) toInput() service.MartialArtInput {
	return service.MartialArtInput{
		Name:            req.Name,
		CountryOfOrigin: req.CountryOfOrigin,
		AgeOfOrigin:     req.AgeOfOrigin,
		Type:            req.Type,
		Distances:       req.Distances,
		Weapons:         req.Weapons,
		ContactType:     req.ContactType,
		Focus:           req.Focus,
		Strengths:       req.Strengths,
		Weaknesses:      req.Weaknesses,
		PhysicalDemands: req.PhysicalDemands,
		Techniques:      req.Techniques,
		Philosophy:      req.Philosophy,
		History:         req.History,
		Images:          req.Images,
	}
}

// List handles GET /api/v1/artes-marciales
func (h *MartialArtHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	search := r.URL.Query().Get("search")
	artType := r.URL.Query().Get("tipo")

	result, err := h.service.List(r.Context(), search, artType, params)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// Get handles GET /api/v1/artes-marciales/{id}
func (h *MartialArtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	art, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: art})
}

// GetBySlug handles GET /api/v1/artes-marciales/slug/{slug}
func (h *MartialArtHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	art, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: art})
}

// CompareRequest is the JSON request body for a side-by-side comparison.
type CompareRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// Compare handles POST /api/v1/artes-marciales/compare
func (h *MartialArtHandler) Compare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	arts, err := h.service.Compare(r.Context(), req.IDs)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: arts})
}

// Create handles POST /api/v1/artes-marciales
func (h *MartialArtHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req MartialArtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	art, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: art})
}

// Update handles PUT /api/v1/artes-marciales/{id}
func (h *MartialArtHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	id := chi.URLParam(r, "id")

	var req MartialArtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	art, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: art})
}

// Delete handles DELETE /api/v1/artes-marciales/{id}
func (h *MartialArtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"id": id, "status": "deleted"}})
}
