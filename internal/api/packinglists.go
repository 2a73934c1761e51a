package api

import (
	"net/http"

	"github.com/erazemk/omara/internal/closet"
	"github.com/erazemk/omara/internal/model"
)

// PackingListsHandler handles packing list endpoints.
type PackingListsHandler struct {
	Svc *closet.Service
}

type listItemsRequest struct {
	PieceIDs []string `json:"piece_ids"`
}

// List handles GET /api/packing-lists.
func (h *PackingListsHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Svc.ListPackingLists(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, lists)
}

// Create handles POST /api/packing-lists.
func (h *PackingListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PackingListFields
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := h.Svc.CreatePackingList(r.Context(), userID(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, list)
}

// Get handles GET /api/packing-lists/{id}.
func (h *PackingListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.GetPackingList(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// Update handles PUT /api/packing-lists/{id}.
func (h *PackingListsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.PackingListFields
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := h.Svc.UpdatePackingList(r.Context(), userID(r), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// AddItems handles POST /api/packing-lists/{id}/items.
func (h *PackingListsHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req listItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := h.Svc.AddItems(r.Context(), userID(r), r.PathValue("id"), req.PieceIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// RemoveItems handles POST /api/packing-lists/{id}/items/remove.
func (h *PackingListsHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	var req listItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := h.Svc.RemoveItems(r.Context(), userID(r), req.PieceIDs, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// Status handles GET /api/packing-lists/{id}/status.
func (h *PackingListsHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Svc.PackStatus(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if status == nil {
		writeError(w, r, closet.ErrListNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, status)
}

// Expire handles POST /api/packing-lists/{id}/expire.
func (h *PackingListsHandler) Expire(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ExpirePackingList(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}
