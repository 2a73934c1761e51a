package api

import (
	"net/http"

	"github.com/erazemk/omara/internal/closet"
)

// LocationsHandler handles location endpoints.
type LocationsHandler struct {
	Svc *closet.Service
}

type createLocationRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/locations.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Svc.ListLocations(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, locations)
}

// Create handles POST /api/locations.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc, err := h.Svc.CreateLocation(r.Context(), userID(r), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, loc)
}
