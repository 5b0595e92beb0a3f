package http

import (
	"errors"
	"net/http"

	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

// UserInfoHandler serves GET /v1/userinfo for the authenticated caller.
type UserInfoHandler struct {
	Store store.Store
}

type userInfoResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles"`
}

// ServeHTTP godoc
//
//	@Summary	Profile of the authenticated user
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	userInfoResponse
//	@Failure	401	{object}	httpx.StatusResponse
//	@Router		/v1/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subject, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteStatus(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	u, err := h.Store.Users().GetUserByID(r.Context(), subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteStatus(w, http.StatusUnauthorized, msgUserNotFound)
			return
		}
		slogx.FromContext(r.Context()).Error("userinfo lookup failed", "subject", subject, "err", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	roles, err := h.Store.Roles().ListForUser(r.Context(), u.ID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("userinfo roles failed", "subject", subject, "err", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfoResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Roles:       roles,
	})
}
