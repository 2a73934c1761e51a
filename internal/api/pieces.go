package api

import (
	"net/http"

	"github.com/erazemk/omara/internal/closet"
)

// PiecesHandler handles piece movement, packing and lost/found endpoints.
type PiecesHandler struct {
	Svc *closet.Service
}

type pieceOpRequest struct {
	PieceIDs      []string `json:"piece_ids"`
	LocationID    string   `json:"location_id"`
	PackingListID string   `json:"packing_list_id"`
}

type logIDsRequest struct {
	IDs []string `json:"ids"`
}

// Move handles POST /api/pieces/move.
func (h *PiecesHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req pieceOpRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	moved, err := h.Svc.MovePieces(r.Context(), userID(r), req.PieceIDs, req.LocationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int{"moved": moved})
}

// Pack handles POST /api/pieces/pack.
func (h *PiecesHandler) Pack(w http.ResponseWriter, r *http.Request) {
	var req pieceOpRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Svc.PackPieces(r.Context(), userID(r), req.PieceIDs, req.PackingListID, req.LocationID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "pieces packed"})
}

// Unpack handles POST /api/pieces/unpack.
func (h *PiecesHandler) Unpack(w http.ResponseWriter, r *http.Request) {
	var req pieceOpRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Svc.UnpackPieces(r.Context(), userID(r), req.PieceIDs, req.PackingListID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "pieces unpacked"})
}

// Delete handles DELETE /api/pieces/{id}.
func (h *PiecesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeletePiece(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "piece deleted"})
}

// Lost handles POST /api/pieces/{id}/lost.
func (h *PiecesHandler) Lost(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.MarkLost(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "piece marked lost"})
}

// Found handles POST /api/pieces/{id}/found.
func (h *PiecesHandler) Found(w http.ResponseWriter, r *http.Request) {
	var req pieceOpRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Svc.MarkFound(r.Context(), userID(r), r.PathValue("id"), req.LocationID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "piece marked found"})
}

// History handles GET /api/pieces/{id}/history.
func (h *PiecesHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.Svc.PieceHistory(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, history)
}

// Logs handles POST /api/location-logs.
func (h *PiecesHandler) Logs(w http.ResponseWriter, r *http.Request) {
	var req logIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entries, err := h.Svc.LocationHistory(r.Context(), userID(r), req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}
