package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/rustdonate/internal/api/response"
	"github.com/mcoot/rustdonate/internal/catalog"
	"github.com/mcoot/rustdonate/internal/model"
)

// CatalogHandler serves the item catalog
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// List handles GET /api/v1/catalog
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.All()
	if c := r.URL.Query().Get("category"); c != "" && c != "all" {
		category := model.Category(c)
		if !category.Valid() {
			WriteError(w, NewInvalidRequestError("unknown category"))
			return
		}
		items = h.catalog.ByCategory(category)
	}

	resp := response.Catalog{
		Items:      make([]response.CatalogItem, len(items)),
		Categories: []string{},
	}
	for i, item := range items {
		resp.Items[i] = response.CatalogItemFromModel(item)
	}
	for _, c := range h.catalog.Categories() {
		resp.Categories = append(resp.Categories, string(c))
	}

	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/catalog/{id}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("item id must be a number"))
		return
	}

	item, err := h.catalog.Get(model.ItemID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CatalogItemFromModel(item))
}
