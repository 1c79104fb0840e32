package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"optics-shop/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes. metrics may be
// nil, in which case /metrics is not mounted.
func NewHandler(svc app.ApplicationService, allowedOrigins string, metrics http.Handler) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health and scraping ───────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	// ── Printable order (browser) ─────────────────────────────────────────────
	r.Get("/orders/{id}/print", h.orderPrintPage)

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/dashboard", h.apiDashboard)
		r.Get("/api/finance", h.apiFinance)
		r.Get("/api/schema", h.apiSchema)

		// ── Orders ────────────────────────────────────────────────────────────
		r.Get("/api/orders", h.apiListOrders)
		r.Post("/api/orders", h.apiCreateOrder)
		r.Get("/api/orders/{id}", h.apiGetOrder)
		r.Put("/api/orders/{id}", h.apiUpdateOrder)
		r.Delete("/api/orders/{id}", h.apiDeleteOrder)
		r.Post("/api/orders/{id}/status", h.apiSetOrderStatus)
		r.Post("/api/orders/{id}/export", h.apiExportOrder)
		r.Get("/api/orders/{id}/share", h.apiShareOrder)

		// ── Exports ───────────────────────────────────────────────────────────
		r.Get("/api/exports/{task}", h.apiGetExport)
		r.Get("/api/exports/{task}/content", h.apiExportContent)
		r.Post("/api/exports/{task}/cancel", h.apiCancelExport)

		// ── Clients ───────────────────────────────────────────────────────────
		r.Get("/api/clients", h.apiListClients)
		r.Post("/api/clients", h.apiCreateClient)
		r.Put("/api/clients/{id}", h.apiUpdateClient)
		r.Get("/api/clients/{id}/orders", h.apiClientOrders)

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Get("/api/inventory", h.apiListInventory)
		r.Post("/api/inventory", h.apiCreateInventoryItem)
		r.Put("/api/inventory/{id}", h.apiUpdateInventoryItem)
		r.Delete("/api/inventory/{id}", h.apiDeleteInventoryItem)
		r.Post("/api/inventory/{id}/quantity", h.apiSetStockQuantity)
	})

	h.router = r
	return r
}

// health returns service status and the configured backends.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Health(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// idParam extracts a positive integer URL parameter and writes a 400 when it
// is not one.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, fmt.Sprintf("invalid %s %q", name, raw), "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
