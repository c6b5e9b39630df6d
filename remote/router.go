package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/viant/recordsync/document"
	"github.com/viant/recordsync/internal/logging"
)

// maxBodyBytes caps the size of an inserted document.
const maxBodyBytes = 1 << 20

// Handler serves a document.Store over HTTP.
type Handler struct {
	store  document.Store
	logger *logging.Logger
}

// NewRouter returns a router exposing store. A nil logger discards
// diagnostics.
func NewRouter(store document.Store, logger *logging.Logger) *mux.Router {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handler{store: store, logger: logger}
	r := mux.NewRouter()
	r.Use(h.logRequests)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/collections/{collection}/documents", h.List).Methods(http.MethodGet)
	r.HandleFunc("/collections/{collection}/documents", h.Create).Methods(http.MethodPost)
	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := fmt.Fprintln(w, "OK"); err != nil {
		h.logger.Warnf("health: %v", err)
	}
}

// List returns every document of the collection in store order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	docs, err := h.store.FetchAll(r.Context(), collection)
	if err != nil {
		h.logger.Errorf("list %s: %v", collection, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := listResponse{Documents: make([]documentPayload, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, documentPayload{ID: d.ID, Fields: d.Fields})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create inserts the JSON object in the request body as a new document.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	var fields map[string]any
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid document: %w", err))
		return
	}
	if fields == nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid document: expected a JSON object"))
		return
	}
	id, err := h.store.Insert(r.Context(), collection, fields)
	if err != nil {
		h.logger.Errorf("insert %s: %v", collection, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, insertResponse{ID: id})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Infof("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(started).Round(time.Microsecond))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
