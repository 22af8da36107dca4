package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAllCategories(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Found!", categories)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	c, err := h.categories.GetCategoryByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Found!", c)
}

func (h *Handler) GetCategoryByName(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.GetCategoryByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Found!", c)
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	c, err := h.categories.AddCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Success!", c)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	c, err := h.categories.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Update success!", c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Deleted!", nil)
}
