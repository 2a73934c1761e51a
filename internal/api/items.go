package api

import (
	"net/http"

	"github.com/erazemk/omara/internal/closet"
)

// ItemsHandler handles clothing info and piece catalog endpoints.
type ItemsHandler struct {
	Svc *closet.Service
}

type createItemsRequest struct {
	Items      []closet.NewItem `json:"items"`
	LocationID string           `json:"location_id"`
}

type addPieceRequest struct {
	LocationID string `json:"location_id"`
}

type convertImageRequest struct {
	OldStorageID string `json:"old_storage_id"`
	NewStorageID string `json:"new_storage_id"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListItems(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	infos, err := h.Svc.CreateItems(r.Context(), userID(r), req.Items, req.LocationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, infos)
}

// Edit handles PATCH /api/items/{id}.
func (h *ItemsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var patch closet.InfoPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := h.Svc.EditInfo(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, info)
}

// Pieces handles GET /api/items/{id}/pieces.
func (h *ItemsHandler) Pieces(w http.ResponseWriter, r *http.Request) {
	pieces, err := h.Svc.ListPieces(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, pieces)
}

// AddPiece handles POST /api/items/{id}/pieces.
func (h *ItemsHandler) AddPiece(w http.ResponseWriter, r *http.Request) {
	var req addPieceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	piece, err := h.Svc.AddPiece(r.Context(), userID(r), r.PathValue("id"), req.LocationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, piece)
}

// ConvertImage handles POST /api/items/convert-image.
func (h *ItemsHandler) ConvertImage(w http.ResponseWriter, r *http.Request) {
	var req convertImageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.Svc.ReplaceImage(r.Context(), userID(r), req.OldStorageID, req.NewStorageID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"updated": n})
}
