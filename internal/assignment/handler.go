package assignment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/giftexchange/internal/exchange"
	"github.com/fkhayef/giftexchange/pkg/response"
)

// Handler handles HTTP requests for assignment operations
type Handler struct {
	service   *Service
	exchanges *exchange.Service
}

// NewHandler creates a new assignment handler
func NewHandler(service *Service, exchanges *exchange.Service) *Handler {
	return &Handler{service: service, exchanges: exchanges}
}

// Routes returns the router for assignment endpoints.
// It expects to be mounted under a pattern that binds {id} to the exchange.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Generate)
	r.Get("/me", h.Mine)
	r.Get("/summary", h.Summary)

	return r
}

// Generate handles POST /exchanges/{id}/assignments
// @Summary      Generate assignments
// @Description  Organizer only. Pairs every participant with a recipient, exactly once per exchange
// @Tags         assignments
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Success      201 {object} response.APIResponse{data=GenerateResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /exchanges/{id}/assignments [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := exchange.CurrentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if _, err := h.exchanges.RequireOrganizer(r.Context(), id, actorID); err != nil {
		exchange.RespondError(w, err, "Failed to generate assignments")
		return
	}

	created, err := h.service.Generate(r.Context(), id)
	if err != nil {
		exchange.RespondError(w, err, "Failed to generate assignments")
		return
	}

	resp := &GenerateResponse{
		Summary: Summary{
			ExchangeID:           id,
			AssignmentsGenerated: true,
			AssignmentCount:      len(created),
		},
	}
	for _, a := range created {
		if a.GiverID == actorID {
			resp.MyAssignment = toResponse(a)
			break
		}
	}

	response.JSON(w, http.StatusCreated, resp)
}

// Mine handles GET /exchanges/{id}/assignments/me
// @Summary      Get my assignment
// @Description  Returns the recipient the caller gives to. Nobody else's pairing is visible
// @Tags         assignments
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Success      200 {object} response.APIResponse{data=AssignmentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /exchanges/{id}/assignments/me [get]
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := exchange.CurrentUser(w, r)
	if !ok {
		return
	}

	a, err := h.service.AssignmentForGiver(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		exchange.RespondError(w, err, "Failed to get assignment")
		return
	}
	if a == nil {
		response.NotFound(w, "You have no assignment in this exchange")
		return
	}

	response.JSON(w, http.StatusOK, toResponse(a))
}

// Summary handles GET /exchanges/{id}/assignments/summary
// @Summary      Assignment summary
// @Description  Organizer only. Aggregate counts without recipient details
// @Tags         assignments
// @Produce      json
// @Param        id path string true "Exchange ID"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /exchanges/{id}/assignments/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	actorID, ok := exchange.CurrentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if _, err := h.exchanges.RequireOrganizer(r.Context(), id, actorID); err != nil {
		exchange.RespondError(w, err, "Failed to get assignment summary")
		return
	}

	summary, err := h.service.Summary(r.Context(), id)
	if err != nil {
		exchange.RespondError(w, err, "Failed to get assignment summary")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
