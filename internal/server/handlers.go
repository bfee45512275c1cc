package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Sakshamebdev873/ServiceOnboard/internal/center"
	"github.com/Sakshamebdev873/ServiceOnboard/internal/storage"
	"github.com/Sakshamebdev873/ServiceOnboard/internal/upload"
)

// maxMultipartMemory is the in-memory threshold for multipart parsing.
// Larger parts are spilled to disk by net/http before we copy them into
// our own temp store.
const maxMultipartMemory = 32 << 20

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service  *center.Service
	uploader *upload.Orchestrator
	temp     storage.TempStore
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *center.Service, uploader *upload.Orchestrator, temp storage.TempStore, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:  service,
		uploader: uploader,
		temp:     temp,
		logger:   logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// OnboardServiceCenter handles POST /api/service-center requests.
//
// The request is a multipart form: text fields, a repeated categories
// field and up to five image files. Images are spilled to the temp store,
// pushed to the object store in parallel, and only then is the record
// written. Temp files are cleaned on every exit path.
func (h *Handlers) OnboardServiceCenter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.logger.Warn("failed to parse multipart form",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid multipart form data", "")
		return
	}

	// FormData sends a single selection as a scalar and multiple
	// selections as a repeated field; MultipartForm.Value gives us a
	// slice either way.
	var categories []string
	if r.MultipartForm != nil {
		categories = r.MultipartForm.Value["categories"]
	}

	tempFiles, err := h.receiveImages(r)
	if err != nil {
		h.logger.Error("failed to receive uploaded images",
			slog.String("error", err.Error()),
		)
		h.cleanupFiles(r.Context(), tempFiles)
		writeError(w, http.StatusInternalServerError, "Failed to upload images to cloud storage", "")
		return
	}

	imageURLs := []string{}
	if len(tempFiles) > 0 {
		imageURLs, err = h.uploader.Upload(r.Context(), tempFiles)
		if err != nil {
			// Temp files are already gone: the orchestrator removes each
			// one after its own attempt, success or failure.
			writeError(w, http.StatusInternalServerError, "Failed to upload images to cloud storage", "")
			return
		}
	}

	input := center.CreateInput{
		CenterName: r.FormValue("centerName"),
		Phone:      r.FormValue("phone"),
		Email:      r.FormValue("email"),
		City:       r.FormValue("city"),
		State:      r.FormValue("state"),
		ZipCode:    r.FormValue("zipCode"),
		Country:    r.FormValue("country"),
		Latitude:   r.FormValue("latitude"),
		Longitude:  r.FormValue("longitude"),
		Categories: categories,
		ImageURLs:  imageURLs,
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		// Second, redundant net: cleanup is idempotent, so sweeping the
		// request's temp paths again is safe even though the orchestrator
		// already removed them.
		h.cleanupFiles(r.Context(), tempFiles)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, OnboardResponse{
		Message: "Service center onboarded successfully",
		Data:    created,
	})
}

// ListServiceCenters handles GET /api/service-center requests.
func (h *Handlers) ListServiceCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list service centers",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	if centers == nil {
		centers = []*center.ServiceCenter{}
	}
	writeJSON(w, http.StatusOK, centers)
}

// receiveImages spills every uploaded image part into the temp store and
// returns one upload.File per part, in form order. On error the caller
// is responsible for cleaning up the files returned so far.
func (h *Handlers) receiveImages(r *http.Request) ([]upload.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	parts := r.MultipartForm.File["images"]
	files := make([]upload.File, 0, len(parts))
	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			return files, err
		}

		path, err := h.temp.SaveTemp(r.Context(), part.Filename, src)
		_ = src.Close()
		if err != nil {
			return files, err
		}

		files = append(files, upload.File{
			Path: path,
			Name: part.Filename,
			Size: part.Size,
		})
	}

	return files, nil
}

// cleanupFiles removes any temp files still referenced by the request.
func (h *Handlers) cleanupFiles(ctx context.Context, files []upload.File) {
	if len(files) == 0 {
		return
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	if err := h.temp.Cleanup(ctx, paths); err != nil {
		h.logger.Warn("temp file cleanup failed",
			slog.String("error", err.Error()),
		)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
