package cartserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/LISSConsulting/storefront/internal/session"
)

// maxBody caps request bodies; a cart line is a few hundred bytes.
const maxBody = 64 << 10

var errBadQuantity = errors.New("cartserver: quantity is not a whole number")

// Handler is the HTTP layer over a Repository.
type Handler struct {
	repo Repository
	log  zerolog.Logger
}

// NewHandler returns a Handler serving repo.
func NewHandler(repo Repository, log zerolog.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// Router returns a mux.Router with all routes registered and request
// logging applied.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	r.Use(h.logRequests)
	return r
}

// RegisterRoutes registers the cart routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/cart", h.ListLines).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.AddLine).Methods(http.MethodPost)
	r.HandleFunc("/cart", h.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/{id}", h.SetQuantity).Methods(http.MethodPut)
	r.HandleFunc("/cart/{id}", h.RemoveLine).Methods(http.MethodDelete)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}

type quantityReq struct {
	Quantity json.RawMessage `json:"quantity"`
}

// quantity reads the optional "quantity" field of body. It reports
// present=false when the field is missing or null, and an error when it is
// not a whole number.
func quantity(body []byte) (n int, present bool, err error) {
	var req quantityReq
	if err := json.Unmarshal(body, &req); err != nil {
		return 0, false, err
	}
	if len(req.Quantity) == 0 || string(req.Quantity) == "null" {
		return 0, false, nil
	}
	n, ok := session.ParseQuantity(req.Quantity)
	if !ok {
		return 0, false, errBadQuantity
	}
	return n, true, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// ListLines handles GET /cart.
func (h *Handler) ListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list lines")
		writeErr(w, http.StatusInternalServerError, "could not read cart")
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// AddLine handles POST /cart.
// body: { "id": 1, "title": "...", "price": 9.99, "image": "...", "quantity": 1 }
// quantity defaults to 1.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "could not read body")
		return
	}
	p, ok := session.DecodeProduct(body)
	if !ok {
		writeErr(w, http.StatusBadRequest, "body must be a cart line with a numeric id")
		return
	}
	n, present, err := quantity(body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "quantity must be a whole number")
		return
	}
	if !present {
		n = 1
	}
	if n < 1 {
		writeErr(w, http.StatusBadRequest, "quantity must be > 0")
		return
	}

	line := session.CartLine{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image, Quantity: n}
	if err := h.repo.Add(r.Context(), line); err != nil {
		h.log.Error().Err(err).Int64("id", int64(p.ID)).Msg("add line")
		writeErr(w, http.StatusInternalServerError, "could not add line")
		return
	}
	h.respondLines(w, r, http.StatusCreated)
}

// SetQuantity handles PUT /cart/{id}.
// body: { "quantity": 3 }. A quantity of zero or less removes the line.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "could not read body")
		return
	}
	n, present, err := quantity(body)
	if err != nil || !present {
		writeErr(w, http.StatusBadRequest, "body must be {\"quantity\": n}")
		return
	}

	if n <= 0 {
		err = h.repo.Remove(r.Context(), id)
	} else {
		err = h.repo.SetQuantity(r.Context(), id, n)
	}
	if h.mutationFailed(w, err, "set quantity", id) {
		return
	}
	h.respondLines(w, r, http.StatusOK)
}

// RemoveLine handles DELETE /cart/{id}.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if h.mutationFailed(w, h.repo.Remove(r.Context(), id), "remove line", id) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart handles DELETE /cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Clear(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("clear cart")
		writeErr(w, http.StatusInternalServerError, "could not clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondLines(w http.ResponseWriter, r *http.Request, code int) {
	lines, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list lines")
		writeErr(w, http.StatusInternalServerError, "could not read cart")
		return
	}
	writeJSON(w, code, lines)
}

func (h *Handler) mutationFailed(w http.ResponseWriter, err error, op string, id session.ProductID) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrLineNotFound) {
		writeErr(w, http.StatusNotFound, "line not found")
		return true
	}
	h.log.Error().Err(err).Int64("id", int64(id)).Msg(op)
	writeErr(w, http.StatusInternalServerError, "could not update cart")
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (session.ProductID, bool) {
	id, err := session.ParseProductID(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, http.StatusBadRequest, "id must be numeric")
		return 0, false
	}
	return id, true
}

// statusRecorder captures the response code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
