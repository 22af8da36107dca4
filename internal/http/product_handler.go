package httpapi

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Brand:    strings.TrimSpace(q.Get("brand")),
		Name:     strings.TrimSpace(q.Get("name")),
		Category: strings.TrimSpace(q.Get("category")),
	}

	products, err := h.products.ListProducts(r.Context(), f)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	filtered := f.Brand != "" || f.Name != "" || f.Category != ""
	if filtered && len(products) == 0 {
		writeMessage(w, http.StatusNotFound, "No product found")
		return
	}
	writeOK(w, "success", products)
}

func (h *Handler) CountProducts(w http.ResponseWriter, r *http.Request) {
	brand, name := r.URL.Query().Get("brand"), r.URL.Query().Get("name")
	if brand == "" || name == "" {
		writeError(w, h.logger, r, apperror.InvalidInput("brand and name are required"))
		return
	}
	n, err := h.products.CountProductsByBrandAndName(r.Context(), brand, name)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "success", n)
}

func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context(), catalog.Filter{})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	var buf bytes.Buffer
	if err := catalog.WriteXLSX(&buf, products); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	w.Header().Set("Content-Type", catalog.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.products.GetProductByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "success", p)
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.AddProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.products.AddProduct(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Add product success", p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req catalog.UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.products.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Update product success", p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Delete product success", id)
}
