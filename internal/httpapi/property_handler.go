package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/property-dashboard/internal/property"
)

// propertyOps is the slice of the property container the handler needs.
type propertyOps interface {
	State() property.State
	UpdateResident(changes property.ResidentChanges)
	UpdateInspection(changes property.InspectionChanges)
	AddMaintenanceOrder(order property.MaintenanceOrder) bool
	UpdateMaintenanceOrder(id string, changes property.OrderChanges) bool
	DeleteMaintenanceOrder(id string) bool
	FilterFurniture(query string) []property.FurnitureItem
	OrderTotals() property.OrderTally
	SetActiveTab(tab string)
	SetSearchQuery(query string)
	SetSelectedRoom(room string)
}

// PropertyHandler exposes the property data container over HTTP.
type PropertyHandler struct {
	data      propertyOps
	responder responder
	logger    *slog.Logger
}

// NewPropertyHandler constructs a PropertyHandler.
func NewPropertyHandler(data propertyOps, logger *slog.Logger) *PropertyHandler {
	base := defaultLogger(logger)
	return &PropertyHandler{data: data, responder: newResponder(base), logger: base}
}

func (h *PropertyHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PropertyHandler", operation, attrs...)
}

// GetState handles GET /property.
func (h *PropertyHandler) GetState(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.data.State())
}

// UpdateResident handles PATCH /property/resident.
func (h *PropertyHandler) UpdateResident(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var changes property.ResidentChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		h.log(r.Context(), "UpdateResident", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode resident changes", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	h.data.UpdateResident(changes)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.data.State().Resident)
}

// UpdateInspection handles PATCH /property/inspection.
func (h *PropertyHandler) UpdateInspection(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var changes property.InspectionChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		h.log(r.Context(), "UpdateInspection", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode inspection changes", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	h.data.UpdateInspection(changes)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.data.State().Inspection)
}

// CreateOrder handles POST /property/orders.
func (h *PropertyHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var order property.MaintenanceOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		h.log(r.Context(), "CreateOrder", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode maintenance order", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateOrder", "order_id", order.ID)
	if !h.data.AddMaintenanceOrder(order) {
		logger.ErrorContext(r.Context(), "maintenance order already exists")
		h.responder.writeJSON(r.Context(), w, http.StatusConflict, errorResponse{
			Message: "Ein Wartungsauftrag mit dieser Nummer existiert bereits.",
		})
		return
	}

	logger.InfoContext(r.Context(), "maintenance order created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, order)
}

// UpdateOrder handles PATCH /property/orders/{id}.
func (h *PropertyHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := OrderIDFromContext(r.Context())
	if !ok || orderID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOrderID)
		return
	}

	var changes property.OrderChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		h.log(r.Context(), "UpdateOrder", "order_id", orderID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode order changes", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if !h.data.UpdateMaintenanceOrder(orderID, changes) {
		h.log(r.Context(), "UpdateOrder", "order_id", orderID, "error_kind", "not_found").ErrorContext(r.Context(), "maintenance order not found")
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{
			Message: "Der Wartungsauftrag wurde nicht gefunden.",
		})
		return
	}

	for _, order := range h.data.State().Analytics.Orders {
		if order.ID == orderID {
			h.responder.writeJSON(r.Context(), w, http.StatusOK, order)
			return
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, nil)
}

// DeleteOrder handles DELETE /property/orders/{id}.
func (h *PropertyHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := OrderIDFromContext(r.Context())
	if !ok || orderID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOrderID)
		return
	}

	if !h.data.DeleteMaintenanceOrder(orderID) {
		h.log(r.Context(), "DeleteOrder", "order_id", orderID, "error_kind", "not_found").ErrorContext(r.Context(), "maintenance order not found")
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{
			Message: "Der Wartungsauftrag wurde nicht gefunden.",
		})
		return
	}

	h.log(r.Context(), "DeleteOrder", "order_id", orderID).InfoContext(r.Context(), "maintenance order deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// SearchFurniture handles GET /property/furniture.
func (h *PropertyHandler) SearchFurniture(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("q")
	items := h.data.FilterFurniture(query)
	if items == nil {
		items = []property.FurnitureItem{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, items)
}

// GetOrderTotals handles GET /property/orders/totals.
func (h *PropertyHandler) GetOrderTotals(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.data.OrderTotals())
}

type uiUpdateRequest struct {
	ActiveTab    *string `json:"activeTab,omitempty"`
	SearchQuery  *string `json:"searchQuery,omitempty"`
	SelectedRoom *string `json:"selectedRoom,omitempty"`
}

// UpdateUI handles PATCH /property/ui.
func (h *PropertyHandler) UpdateUI(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.data == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req uiUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if req.ActiveTab != nil {
		h.data.SetActiveTab(*req.ActiveTab)
	}
	if req.SearchQuery != nil {
		h.data.SetSearchQuery(*req.SearchQuery)
	}
	if req.SelectedRoom != nil {
		h.data.SetSelectedRoom(*req.SelectedRoom)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.data.State().UI)
}
