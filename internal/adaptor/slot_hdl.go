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

type SlotHandler struct {
	service usecase.SlotService
	log     *zap.Logger
}

func NewSlotHandler(service usecase.SlotService, log *zap.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log.With(zap.String("handler", "slot")),
	}
}

// CreateBatch handles POST /api/v1/slots (protected)
func (h *SlotHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	slots, err := h.service.CreateSlots(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create slots")
		return
	}

	utils.ResponseCreated(w, "success", slots)
}

// Update handles PUT /api/v1/slots/{id} (protected)
func (h *SlotHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Slot ID is required", nil)
		return
	}

	var req request.UpdateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	slot, err := h.service.UpdateSlot(r.Context(), userID, slotID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update slot")
		return
	}

	utils.ResponseSuccess(w, "success", slot)
}

// Delete handles DELETE /api/v1/slots/{id} (protected)
func (h *SlotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Slot ID is required", nil)
		return
	}

	if err := h.service.DeleteSlot(r.Context(), userID, slotID); err != nil {
		handleServiceError(w, h.log, err, "delete slot")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ListUpcoming handles GET /api/v1/offerings/{id}/slots (public)
func (h *SlotHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	offeringID := chi.URLParam(r, "id")
	if offeringID == "" {
		utils.ResponseBadRequest(w, "Offering ID is required", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	slots, err := h.service.GetUpcomingSlots(r.Context(), offeringID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list upcoming slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}
