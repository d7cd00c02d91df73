package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"dfuse/internal/dataset"
	"dfuse/internal/insight"
	docrepo "dfuse/internal/repository/canvasdoc"
)

const maxDatasetUploadBytes = 32 << 20

// Deps is everything the HTTP surface needs. Datasets and Insights are
// optional; their routes answer 503 when unconfigured.
type Deps struct {
	Docs     docrepo.Store
	Datasets *dataset.S3Store
	Insights insight.Generator
}

func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/canvas/{id}", handleGetCanvas(deps.Docs))
	mux.HandleFunc("POST /api/datasets", handleUploadDataset(deps.Datasets))
	mux.HandleFunc("GET /api/datasets", handleListDatasets(deps.Datasets))
	mux.HandleFunc("GET /api/datasets/{id}", handleGetDataset(deps.Datasets))

	ws := NewCanvasWSHandler(deps.Docs, deps.Insights)
	mux.HandleFunc("/ws/canvas", ws.HandleCanvasWS)

	return mux
}

func handleGetCanvas(docs docrepo.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		canvasID := strings.TrimSpace(r.PathValue("id"))
		if canvasID == "" {
			httpError(w, http.StatusBadRequest, "canvas id is required")
			return
		}
		doc, err := docs.Get(r.Context(), canvasID)
		if err != nil {
			log.Printf("get canvas %s failed: %v", canvasID, err)
			httpError(w, http.StatusInternalServerError, "failed to load canvas")
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleUploadDataset(store *dataset.S3Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			httpError(w, http.StatusServiceUnavailable, "dataset storage is not configured")
			return
		}

		raw, name, err := readDatasetUpload(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}

		profile, err := dataset.ProfileCSV(raw)
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}

		id := newDatasetID()
		if err := store.Put(r.Context(), id, raw); err != nil {
			log.Printf("store dataset %s failed: %v", id, err)
			httpError(w, http.StatusInternalServerError, "failed to store dataset")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"datasetId": id,
			"filename":  name,
			"profile":   profile,
		})
	}
}

func handleListDatasets(store *dataset.S3Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			httpError(w, http.StatusServiceUnavailable, "dataset storage is not configured")
			return
		}
		ids, err := store.List(r.Context())
		if err != nil {
			log.Printf("list datasets failed: %v", err)
			httpError(w, http.StatusInternalServerError, "failed to list datasets")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"datasets": ids})
	}
}

func handleGetDataset(store *dataset.S3Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			httpError(w, http.StatusServiceUnavailable, "dataset storage is not configured")
			return
		}
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			httpError(w, http.StatusBadRequest, "dataset id is required")
			return
		}
		raw, err := store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, dataset.ErrNotFound) {
				httpError(w, http.StatusNotFound, "dataset not found")
				return
			}
			log.Printf("get dataset %s failed: %v", id, err)
			httpError(w, http.StatusInternalServerError, "failed to load dataset")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(raw)
	}
}

// readDatasetUpload accepts either a multipart form with a "file" field or a
// raw text/csv body.
func readDatasetUpload(r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxDatasetUploadBytes)

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New("multipart upload needs a 'file' field")
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("failed to read uploaded file")
		}
		return raw, header.Filename, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", errors.New("failed to read request body")
	}
	if len(raw) == 0 {
		return nil, "", errors.New("request body is empty")
	}
	return raw, "", nil
}

func newDatasetID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "ds-00000000"
	}
	return "ds-" + hex.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
