package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/omara/internal/closet"
	"github.com/erazemk/omara/internal/imaging"
)

// UploadsHandler handles the two-step image upload and image reads.
type UploadsHandler struct {
	Svc *closet.Service
}

// Create handles POST /api/uploads. It reserves a storage id that the
// image is then PUT to.
func (h *UploadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.CreateUpload(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, u)
}

// Put handles PUT /api/uploads/{id}. The image is either the raw body or
// the "image" field of a multipart form.
func (h *UploadsHandler) Put(w http.ResponseWriter, r *http.Request) {
	// Leave room for multipart framing around the image.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)

	body := io.Reader(r.Body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
			jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
			return
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			jsonError(w, http.StatusBadRequest, "image file required")
			return
		}
		defer file.Close()
		body = file
	}

	u, err := h.Svc.StoreUpload(r.Context(), userID(r), r.PathValue("id"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, u)
}

// Image handles GET /api/images/{id}.
func (h *UploadsHandler) Image(w http.ResponseWriter, r *http.Request) {
	info, rc, err := h.Svc.OpenImage(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("streaming image failed", "image", r.PathValue("id"), "error", err)
	}
}
