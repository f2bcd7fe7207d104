package exchange

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/giftexchange/pkg/middleware"
	"github.com/fkhayef/giftexchange/pkg/response"
)

// Handler handles HTTP requests for exchange operations
type Handler struct {
	service *Service
}

// NewHandler creates a new exchange handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for exchange endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/can-generate", h.CanGenerate)

	// Admission workflow
	r.Post("/{id}/requests", h.RequestJoin)
	r.Post("/{id}/requests/{userId}/approve", h.ApprovePending)
	r.Post("/{id}/requests/{userId}/decline", h.DeclinePending)
	r.Delete("/{id}/participants/{userId}", h.RemoveParticipant)

	return r
}

// RespondError maps exchange and assignment errors onto API error responses
func RespondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, ErrExchangeNotFound), errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNoPendingRequest):
		response.Error(w, http.StatusNotFound, "NO_PENDING_REQUEST", err.Error())
	case errors.Is(err, ErrNotParticipant):
		response.Error(w, http.StatusNotFound, "NOT_PARTICIPANT", err.Error())
	case errors.Is(err, ErrAlreadyParticipant):
		response.Error(w, http.StatusConflict, "ALREADY_PARTICIPANT", err.Error())
	case errors.Is(err, ErrAlreadyPending):
		response.Error(w, http.StatusConflict, "ALREADY_PENDING", err.Error())
	case errors.Is(err, ErrExchangeClosed):
		response.Error(w, http.StatusConflict, "EXCHANGE_CLOSED", err.Error())
	case errors.Is(err, ErrAlreadyGenerated):
		response.Error(w, http.StatusConflict, "ALREADY_GENERATED", err.Error())
	case errors.Is(err, ErrInsufficientParticipants):
		response.UnprocessableEntity(w, "INSUFFICIENT_PARTICIPANTS", err.Error())
	case errors.Is(err, ErrNotOrganizer):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAssignmentGenerationFailed):
		log.Printf("assignment generation failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "ASSIGNMENT_GENERATION_FAILED", err.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		response.InternalError(w, fallback)
	}
}

// CurrentUser returns the caller's user id or writes 401
func CurrentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return 0, false
	}
	return userID, true
}

func parseUserParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		response.BadRequest(w, "Invalid user ID")
		return 0, false
	}
	return userID, true
}

// Create handles POST /exchanges
// @Summary      Create a new exchange
// @Description  Create a gift exchange; the caller becomes organizer and first participant
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Param        request body CreateExchangeRequest true "Exchange creation request"
// @Success      201 {object} response.APIResponse{data=ExchangeResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /exchanges [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := CurrentUser(w, r)
	if !ok {
		return
	}

	var req CreateExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	snap, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		RespondError(w, err, "Failed to create exchange")
		return
	}

	response.JSON(w, http.StatusCreated, snap.ToResponse())
}

// GetByID handles GET /exchanges/{id}
// @Summary      Get exchange by ID
// @Description  Get an exchange with its participants and pending requests
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Success      200 {object} response.APIResponse{data=ExchangeResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /exchanges/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, err, "Failed to get exchange")
		return
	}

	response.JSON(w, http.StatusOK, snap.ToResponse())
}

// List handles GET /exchanges
// @Summary      List my exchanges
// @Description  Get a paginated list of exchanges the current user participates in
// @Tags         exchanges
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExchangeResponse}
// @Router       /exchanges [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUser(w, r)
	if !ok {
		return
	}

	page, perPage := response.Pagination(r)

	exchanges, total, err := h.service.ListForUser(r.Context(), userID, page, perPage)
	if err != nil {
		RespondError(w, err, "Failed to list exchanges")
		return
	}

	exchangeResponses := make([]*ExchangeResponse, len(exchanges))
	for i, ex := range exchanges {
		exchangeResponses[i] = ex.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, exchangeResponses, response.NewMeta(page, perPage, total))
}

// Delete handles DELETE /exchanges/{id}
// @Summary      Delete an exchange
// @Description  Organizer only. Removes participants, requests and assignments too
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /exchanges/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := CurrentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if _, err := h.service.RequireOrganizer(r.Context(), id, actorID); err != nil {
		RespondError(w, err, "Failed to delete exchange")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		RespondError(w, err, "Failed to delete exchange")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Exchange deleted successfully"})
}

// CanGenerate handles GET /exchanges/{id}/can-generate
// @Summary      Check whether assignments can be generated
// @Description  True while the exchange is open and has at least 3 participants
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Success      200 {object} response.APIResponse{data=CanGenerateResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /exchanges/{id}/can-generate [get]
func (h *Handler) CanGenerate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	can, err := h.service.CanGenerate(r.Context(), id)
	if err != nil {
		RespondError(w, err, "Failed to check exchange")
		return
	}

	response.JSON(w, http.StatusOK, &CanGenerateResponse{ExchangeID: id, CanGenerate: can})
}

// RequestJoin handles POST /exchanges/{id}/requests
// @Summary      Request to join
// @Description  The caller asks the organizer to be admitted to the exchange
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Success      201 {object} response.APIResponse{data=ExchangeResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /exchanges/{id}/requests [post]
func (h *Handler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUser(w, r)
	if !ok {
		return
	}

	snap, err := h.service.RequestJoin(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		RespondError(w, err, "Failed to request to join")
		return
	}

	response.JSON(w, http.StatusCreated, snap.ToResponse())
}

// ApprovePending handles POST /exchanges/{id}/requests/{userId}/approve
// @Summary      Approve a join request
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Param        userId path int true "Requesting user ID"
// @Success      200 {object} response.APIResponse{data=ExchangeResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /exchanges/{id}/requests/{userId}/approve [post]
func (h *Handler) ApprovePending(w http.ResponseWriter, r *http.Request) {
	actorID, ok := CurrentUser(w, r)
	if !ok {
		return
	}
	userID, ok := parseUserParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if _, err := h.service.RequireOrganizer(r.Context(), id, actorID); err != nil {
		RespondError(w, err, "Failed to approve request")
		return
	}

	snap, err := h.service.ApprovePending(r.Context(), id, userID)
	if err != nil {
		RespondError(w, err, "Failed to approve request")
		return
	}

	response.JSON(w, http.StatusOK, snap.ToResponse())
}

// DeclinePending handles POST /exchanges/{id}/requests/{userId}/decline
// @Summary      Decline a join request
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Param        userId path int true "Requesting user ID"
// @Success      200 {object} response.APIResponse{data=ExchangeResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /exchanges/{id}/requests/{userId}/decline [post]
func (h *Handler) DeclinePending(w http.ResponseWriter, r *http.Request) {
	actorID, ok := CurrentUser(w, r)
	if !ok {
		return
	}
	userID, ok := parseUserParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if _, err := h.service.RequireOrganizer(r.Context(), id, actorID); err != nil {
		RespondError(w, err, "Failed to decline request")
		return
	}

	snap, err := h.service.DeclinePending(r.Context(), id, userID)
	if err != nil {
		RespondError(w, err, "Failed to decline request")
		return
	}

	response.JSON(w, http.StatusOK, snap.ToResponse())
}

// RemoveParticipant handles DELETE /exchanges/{id}/participants/{userId}
// @Summary      Remove a participant
// @Description  The organizer may remove anyone; other participants may only remove themselves
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Param        userId path int true "Participant user ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /exchanges/{id}/participants/{userId} [delete]
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	actorID, ok := CurrentUser(w, r)
	if !ok {
		return
	}
	userID, ok := parseUserParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if actorID != userID {
		if _, err := h.service.RequireOrganizer(r.Context(), id, actorID); err != nil {
			RespondError(w, err, "Failed to remove participant")
			return
		}
	}

	if err := h.service.RemoveParticipant(r.Context(), id, userID); err != nil {
		RespondError(w, err, "Failed to remove participant")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Participant removed successfully"})
}
