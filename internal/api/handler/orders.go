package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/rustdonate/internal/api/request"
	"github.com/mcoot/rustdonate/internal/api/response"
	"github.com/mcoot/rustdonate/internal/catalog"
	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/services/orders"
)

// OrderHandler handles purchase submission and the order list
type OrderHandler struct {
	ledger      *orders.Ledger
	catalog     *catalog.Catalog
	recentLimit int
}

// NewOrderHandler creates a new order handler. recentLimit caps GET /orders
// when no limit is given.
func NewOrderHandler(ledger *orders.Ledger, c *catalog.Catalog, recentLimit int) *OrderHandler {
	return &OrderHandler{
		ledger:      ledger,
		catalog:     c,
		recentLimit: recentLimit,
	}
}

// List handles GET /api/v1/orders. limit=0 returns every order.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := h.recentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative number"))
			return
		}
		limit = n
	}

	response.JSON(w, http.StatusOK, response.OrderList{
		Orders: response.OrdersFromModel(h.ledger.List(limit)),
	})
}

// Submit handles POST /api/v1/orders
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var item *model.CatalogItem
	if req.ItemID != nil {
		found, err := h.catalog.Get(model.ItemID(*req.ItemID))
		if err != nil {
			WriteError(w, err)
			return
		}
		item = &found
	}

	id, err := h.ledger.Submit(r.Context(), item, req.SteamID)
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.ledger.Get(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.OrderFromModel(order))
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("order id must be a number"))
		return
	}

	order, err := h.ledger.Get(model.OrderID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OrderFromModel(order))
}
