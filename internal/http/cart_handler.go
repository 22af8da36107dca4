package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/cart"
)

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// ownedCart loads the cart and hides carts that belong to someone else.
func (h *Handler) ownedCart(r *http.Request) (cart.Cart, error) {
	id, err := pathID(r, "cartId")
	if err != nil {
		return cart.Cart{}, err
	}
	c, err := h.carts.GetCart(r.Context(), id)
	if err != nil {
		return cart.Cart{}, err
	}
	if c.UserID != callerID(r) {
		return cart.Cart{}, apperror.NotFound("Cart not found")
	}
	return c, nil
}

func (h *Handler) MyCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.InitializeNewCart(r.Context(), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Success", c)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedCart(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Success", c)
}

func (h *Handler) CartTotal(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedCart(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	total, err := h.carts.GetTotalPrice(r.Context(), c.ID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Total Price", total)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedCart(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.carts.ClearCart(r.Context(), c.ID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Clear cart success!", nil)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if req.ProductID <= 0 || req.Quantity <= 0 {
		writeError(w, h.logger, r, apperror.InvalidInput("productId and a positive quantity are required"))
		return
	}

	c, err := h.carts.InitializeNewCart(r.Context(), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	c, err = h.carts.AddItemToCart(r.Context(), c.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Add Item Success", c)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedCart(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if req.Quantity <= 0 {
		writeError(w, h.logger, r, apperror.InvalidInput("quantity must be positive"))
		return
	}

	if err := h.carts.UpdateItemQuantity(r.Context(), c.ID, productID, req.Quantity); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Update Item Success", nil)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.ownedCart(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.carts.RemoveItemFromCart(r.Context(), c.ID, productID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Remove Item Success", nil)
}
