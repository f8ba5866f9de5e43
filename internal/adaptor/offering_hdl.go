package adaptor

import (
	"encoding/json"
	"net/http"

	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OfferingHandler struct {
	service usecase.OfferingService
	log     *zap.Logger
}

func NewOfferingHandler(service usecase.OfferingService, log *zap.Logger) *OfferingHandler {
	return &OfferingHandler{
		service: service,
		log:     log.With(zap.String("handler", "offering")),
	}
}

// Create handles POST /api/v1/offerings (protected)
func (h *OfferingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	offering, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create offering")
		return
	}

	utils.ResponseCreated(w, "success", offering)
}

// List handles GET /api/v1/offerings (protected)
func (h *OfferingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	offerings, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list offerings")
		return
	}

	utils.ResponseSuccess(w, "success", offerings)
}

// Update handles PUT /api/v1/offerings/{id} (protected)
func (h *OfferingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	offeringID := chi.URLParam(r, "id")
	if offeringID == "" {
		utils.ResponseBadRequest(w, "Offering ID is required", nil)
		return
	}

	var req request.UpdateOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	offering, err := h.service.Update(r.Context(), userID, offeringID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update offering")
		return
	}

	utils.ResponseSuccess(w, "success", offering)
}

// Delete handles DELETE /api/v1/offerings/{id} (protected)
func (h *OfferingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	offeringID := chi.URLParam(r, "id")
	if offeringID == "" {
		utils.ResponseBadRequest(w, "Offering ID is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), userID, offeringID); err != nil {
		handleServiceError(w, h.log, err, "delete offering")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
