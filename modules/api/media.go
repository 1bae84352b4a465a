package api

import (
	"net/http"

	"github.com/gymgo/gymgo/svc/media"
)

// maxUploadMemory caps how much of a multipart body is buffered in memory;
// larger files spill to temp files.
const maxUploadMemory = 10 << 20

type fileResponse struct {
	media.File
	URL string `json:"url"`
}

// uploadMedia accepts a multipart form with a "file" part and a "category"
// field. Size and storage ceilings are enforced by the media service before
// anything reaches the backend.
func (h *handlers) uploadMedia(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, r, h.deps.Log, badRequest("malformed multipart body"))
		return
	}
	category := media.Category(r.FormValue("category"))
	_, fh, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, h.deps.Log, badRequest("missing file part"))
		return
	}

	f, err := h.deps.Media.Upload(r.Context(), orgID, category, fh)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusCreated, fileResponse{File: *f, URL: h.deps.Media.URL(f)})
}

func (h *handlers) listMedia(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	files, err := h.deps.Media.List(r.Context(), orgID)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	out := make([]fileResponse, len(files))
	for i := range files {
		out[i] = fileResponse{File: files[i], URL: h.deps.Media.URL(&files[i])}
	}
	respond(w, http.StatusOK, out)
}

func (h *handlers) deleteMedia(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	fileID, err := idParam(r, "fileID")
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	if err := h.deps.Media.Delete(r.Context(), orgID, fileID); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
