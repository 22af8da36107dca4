package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Login Success!", loginResponse{ID: u.ID, Token: token})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	u, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Create User Success!", u)
}

// self resolves {userId} and only lets callers address their own account.
func (h *Handler) self(r *http.Request) (int64, error) {
	id, err := pathID(r, "userId")
	if err != nil {
		return 0, err
	}
	if id != callerID(r) {
		return 0, apperror.NotFound("User not found!")
	}
	return id, nil
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.self(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	u, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Success", u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.self(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	var req user.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	u, err := h.users.UpdateUser(r.Context(), id, req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Update User Success!", u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.self(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Delete User Success!", nil)
}
