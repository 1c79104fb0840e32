package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"optics-shop/internal/app"
	"optics-shop/internal/export"

	"github.com/go-chi/chi/v5"
)

// ── Reports ───────────────────────────────────────────────────────────────────

// apiDashboard handles GET /api/dashboard.
func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiFinance handles GET /api/finance.
func (h *Handler) apiFinance(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetFinance(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSchema handles GET /api/schema.
func (h *Handler) apiSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.svc.SnapshotSchema(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(schema)
}

// ── Orders ────────────────────────────────────────────────────────────────────

// apiListOrders handles GET /api/orders?status=.
func (h *Handler) apiListOrders(w http.ResponseWriter, r *http.Request) {
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}
	result, err := h.svc.ListOrders(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetOrder handles GET /api/orders/{id}.
func (h *Handler) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateOrder handles POST /api/orders.
// Body: app.OrderRequest; amounts may be JSON numbers or numeric strings.
func (h *Handler) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req app.OrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiUpdateOrder handles PUT /api/orders/{id}.
func (h *Handler) apiUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.OrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.UpdateOrder(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDeleteOrder handles DELETE /api/orders/{id}.
func (h *Handler) apiDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiSetOrderStatus handles POST /api/orders/{id}/status.
// Body: { status }
func (h *Handler) apiSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.SetOrderStatus(r.Context(), id, body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiShareOrder handles GET /api/orders/{id}/share.
func (h *Handler) apiShareOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.ShareOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// orderPrintPage handles GET /orders/{id}/print and renders the printable
// order document directly.
func (h *Handler) orderPrintPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := export.RenderHTML(*result.Document)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// ── Exports ───────────────────────────────────────────────────────────────────

// apiExportOrder handles POST /api/orders/{id}/export.
// Body: { format } where format is html, jpeg or pdf. An empty body means html.
func (h *Handler) apiExportOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Format string `json:"format"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.ExportOrder(r.Context(), id, body.Format)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/exports/"+result.Task.ID)
	writeJSONStatus(w, http.StatusAccepted, result)
}

// apiGetExport handles GET /api/exports/{task}. With ?wait=1 it blocks until
// the task ends or the request is cancelled.
func (h *Handler) apiGetExport(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task")
	var (
		result *app.ExportResult
		err    error
	)
	if r.URL.Query().Get("wait") != "" {
		result, err = h.svc.WaitExport(r.Context(), taskID)
	} else {
		result, err = h.svc.GetExport(r.Context(), taskID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiExportContent handles GET /api/exports/{task}/content.
func (h *Handler) apiExportContent(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ExportContent(r.Context(), chi.URLParam(r, "task"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(result.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(result.Data)))
	_, _ = w.Write(result.Data)
}

// apiCancelExport handles POST /api/exports/{task}/cancel.
func (h *Handler) apiCancelExport(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CancelExport(r.Context(), chi.URLParam(r, "task"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// contentDisposition builds an attachment header with an RFC 5987 filename,
// since client names are usually Cyrillic.
func contentDisposition(name string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(name))
}
