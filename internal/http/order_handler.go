package httpapi

import (
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/order"
)

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.PlaceOrder(r.Context(), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Item Order Success!", o)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetUserOrders(r.Context(), callerID(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Success", orders)
}

// ownedOrder returns the caller's order; other users' orders read as missing.
func (h *Handler) ownedOrder(r *http.Request) (order.Order, error) {
	id, err := pathID(r, "orderId")
	if err != nil {
		return order.Order{}, err
	}
	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		return order.Order{}, err
	}
	if o.UserID != callerID(r) {
		return order.Order{}, apperror.NotFound("No order found")
	}
	return o, nil
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.ownedOrder(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Success", o)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.ownedOrder(r)
	if errors.Is(err, apperror.ErrNotFound) {
		err = apperror.NotFound("Order not found")
	}
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	cancelled, err := h.orders.CancelOrder(r.Context(), o.ID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Order cancelled", cancelled)
}

func (h *Handler) UserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := h.self(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	orders, err := h.orders.GetUserOrders(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Success", orders)
}
