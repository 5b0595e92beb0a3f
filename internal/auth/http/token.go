package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

const (
	msgBadRequestBody     = "Invalid request body."
	msgInvalidCredentials = "Invalid username or password."
	msgInvalidRefresh     = "Invalid or expired refresh token."
)

// TokenHandler serves the login, refresh and logout endpoints.
type TokenHandler struct {
	TokenService *service.TokenService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Status       bool   `json:"status"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Expires      int64  `json:"expires"`
}

// HandleLogin godoc
//
//	@Summary	Login
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"Credentials"
//	@Success	200		{object}	tokenResponse
//	@Failure	401		{object}	httpx.StatusResponse
//	@Router		/v1/auth/login [post].
func (h *TokenHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteStatus(w, http.StatusBadRequest, msgBadRequestBody)
		return
	}

	pair, err := h.TokenService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeTokenError(w, r, err)
		return
	}

	writeTokenPair(w, pair)
}

// HandleRefresh godoc
//
//	@Summary	Refresh the access credential
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		refreshRequest	true	"Refresh secret"
//	@Success	200		{object}	tokenResponse
//	@Failure	401		{object}	httpx.StatusResponse
//	@Router		/v1/auth/refresh [post].
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, msgBadRequestBody)
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeTokenError(w, r, err)
		return
	}

	writeTokenPair(w, pair)
}

// HandleLogout godoc
//
//	@Summary	Revoke the refresh secret
//	@Tags		Auth
//	@Security	BearerAuth
//	@Accept		json
//	@Success	204
//	@Failure	401	{object}	httpx.StatusResponse
//	@Router		/v1/auth/logout [post].
func (h *TokenHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, msgBadRequestBody)
		return
	}

	if err := h.TokenService.Revoke(r.Context(), req.RefreshToken); err != nil {
		h.writeTokenError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TokenHandler) writeTokenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteStatus(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, service.ErrAccountLocked):
		httpx.WriteStatus(w, http.StatusUnauthorized, msgUserLocked)
	case errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteStatus(w, http.StatusUnauthorized, msgInvalidRefresh)
	default:
		slogx.FromContext(r.Context()).Error("token endpoint failure", "err", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func writeTokenPair(w http.ResponseWriter, pair domain.TokenPair) {
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		Status:       true,
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
		Expires:      pair.Expires,
	})
}
