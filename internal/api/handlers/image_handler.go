// filepath: internal/api/handlers/image_handler.go
package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"

	"medialocker/internal/logging"
	"medialocker/internal/models"
)

// favouriteResponse reports the state after a toggle.
type favouriteResponse struct {
	Favourite bool `json:"favourite"`
}

// batchUploadResponse lists the images created by a batch upload.
type batchUploadResponse struct {
	Uploaded []models.Image `json:"uploaded"`
}

// @Summary Upload an image
// @Description Store a single image owned by the caller.
// @Tags Images
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} models.Image
// @Failure 400 {object} ErrorResponse "Missing or oversized file"
// @Security BearerAuth
// @Router /images [post]
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSizeBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or oversized multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	img, err := h.Image.Upload(callerClaims(r), file, header.Filename)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, img)
}

// @Summary Upload several images
// @Description Store every non-empty file part, owned by the caller.
// @Tags Images
// @Accept mpfd
// @Produce json
// @Param files formData file true "Image files (repeated)"
// @Success 201 {object} batchUploadResponse
// @Failure 400 {object} ErrorResponse "No usable file parts"
// @Security BearerAuth
// @Router /images/batch [post]
func (h *Handlers) UploadImageBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSizeBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or oversized multipart body")
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		respondWithError(w, http.StatusBadRequest, "Missing 'files' form field")
		return
	}

	claims := callerClaims(r)
	uploaded := make([]models.Image, 0, len(headers))
	for _, header := range headers {
		// Empty parts are skipped rather than failing the batch.
		if header.Size == 0 {
			continue
		}
		file, err := header.Open()
		if err != nil {
			logging.Log.Warnf("UploadImageBatch: cannot open part '%s': %v", header.Filename, err)
			continue
		}
		img, err := h.Image.Upload(claims, file, header.Filename)
		file.Close()
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		uploaded = append(uploaded, *img)
	}

	respondWithJSON(w, http.StatusCreated, batchUploadResponse{Uploaded: uploaded})
}

// @Summary List own images
// @Description Page through the caller's images, newest first, with favourite flags.
// @Tags Images
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagedResponse
// @Security BearerAuth
// @Router /images [get]
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	items, total, err := h.Image.ListOwn(callerClaims(r), page, pageSize)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pagedResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// @Summary List distinct file names
// @Tags Images
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /images/filenames [get]
func (h *Handlers) GetFilenames(w http.ResponseWriter, r *http.Request) {
	names, err := h.Image.Filenames(callerClaims(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, names)
}

// @Summary List own images by original name
// @Tags Images
// @Produce json
// @Param name path string true "Original file name"
// @Success 200 {array} services.OwnedImage
// @Security BearerAuth
// @Router /images/by-filename/{name} [get]
func (h *Handlers) GetImagesByFilename(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	items, err := h.Image.ByFilename(callerClaims(r), name)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// @Summary Download an image
// @Description Stream the file content; owner or admin only. Accepts ?access_token= for clients that cannot set headers.
// @Tags Images
// @Produce octet-stream
// @Param id path int true "Image id"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Unknown image"
// @Security BearerAuth
// @Router /images/{id}/file [get]
func (h *Handlers) GetImageFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	rc, img, err := h.Image.OpenFile(callerClaims(r), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	defer rc.Close()
	streamImage(w, rc, img)
}

// @Summary View an image
// @Description Public view path: anyone holding the id can fetch the content.
// @Tags Images
// @Produce octet-stream
// @Param id path int true "Image id"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse "Unknown image or missing file"
// @Router /images/view/{id} [get]
func (h *Handlers) ViewImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	rc, img, err := h.Image.OpenPublic(id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	defer rc.Close()
	streamImage(w, rc, img)
}

// streamImage copies the file content to the client with metadata
// headers derived from the original name.
func streamImage(w http.ResponseWriter, rc io.Reader, img *models.Image) {
	w.Header().Set("Content-Type", contentTypeFor(img.OriginalName))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.OriginalName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", img.SizeBytes))
	if _, err := io.Copy(w, rc); err != nil {
		logging.Log.Warnf("streamImage: aborted stream of image %d: %v", img.ID, err)
	}
}

// @Summary Delete an image
// @Description Remove the image and its favourite marks; owner or admin only.
// @Tags Images
// @Produce json
// @Param id path int true "Image id"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Unknown image"
// @Security BearerAuth
// @Router /images/{id} [delete]
func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Image.Delete(r.Context(), callerClaims(r), id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Image deleted"})
}

// @Summary Toggle a favourite mark
// @Description Flip the caller's favourite mark on an owned image and return the new state.
// @Tags Images
// @Produce json
// @Param id path int true "Image id"
// @Success 200 {object} favouriteResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Unknown image"
// @Security BearerAuth
// @Router /images/{id}/favourite [post]
func (h *Handlers) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	marked, err := h.Image.ToggleFavourite(callerClaims(r), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, favouriteResponse{Favourite: marked})
}
