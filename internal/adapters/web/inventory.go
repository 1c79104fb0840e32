package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"optics-shop/internal/app"
)

// apiListInventory handles GET /api/inventory.
func (h *Handler) apiListInventory(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInventory(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateInventoryItem handles POST /api/inventory.
// Body: { name, category, quantity, purchasePrice, sellingPrice }
func (h *Handler) apiCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req app.InventoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateInventoryItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiUpdateInventoryItem handles PUT /api/inventory/{id}.
func (h *Handler) apiUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.InventoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.UpdateInventoryItem(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDeleteInventoryItem handles DELETE /api/inventory/{id}.
func (h *Handler) apiDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteInventoryItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiSetStockQuantity handles POST /api/inventory/{id}/quantity.
// Body: { quantity } as a JSON string or number. Validation happens on the
// raw text so "12.5" and "abc" are rejected the same way as typed input.
func (h *Handler) apiSetStockQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Quantity json.RawMessage `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.SetStockQuantity(r.Context(), id, rawQuantity(body.Quantity))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// rawQuantity returns the text of a JSON string, or the literal of any other
// JSON value.
func rawQuantity(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}
