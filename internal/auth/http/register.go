package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register.
type RegisterHandler struct {
	UserService *service.UserService
}

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type registerResponse struct {
	Status bool   `json:"status"`
	ID     string `json:"id"`
}

// ServeHTTP godoc
//
//	@Summary	Register a new account
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"New account"
//	@Success	201		{object}	registerResponse
//	@Failure	400		{object}	httpx.StatusResponse
//	@Failure	409		{object}	httpx.StatusResponse
//	@Router		/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteStatus(w, http.StatusBadRequest, msgBadRequestBody)
		return
	}

	u, err := h.UserService.Register(r.Context(), req.Username, req.Password, req.DisplayName, req.Email)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, registerResponse{Status: true, ID: u.ID})
	case errors.Is(err, service.ErrInvalidRegister):
		httpx.WriteStatus(w, http.StatusBadRequest, "Username and a password of at least 8 characters are required.")
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteStatus(w, http.StatusConflict, "Username is already taken.")
	default:
		slogx.FromContext(r.Context()).Error("registration failure", "err", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "Internal server error.")
	}
}
