package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

// AdminUsersHandler serves the role-guarded admin user surface.
type AdminUsersHandler struct {
	UserService *service.UserService
}

type adminUser struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Locked      bool       `json:"locked"`
	LockoutEnd  *time.Time `json:"lockoutEnd,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// HandleList godoc
//
//	@Summary	List accounts
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	adminUser
//	@Failure	401	{object}	httpx.StatusResponse
//	@Router		/v1/admin/users [get].
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("admin user list failed", "err", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	now := time.Now().UTC()
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Locked:      u.IsLockedOut(now),
			LockoutEnd:  u.LockoutEnd,
			CreatedAt:   u.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleLock godoc
//
//	@Summary	Lock an account
//	@Tags		Admin
//	@Security	BearerAuth
//	@Success	204
//	@Failure	404	{object}	httpx.StatusResponse
//	@Router		/v1/admin/users/{id}/lock [post].
func (h *AdminUsersHandler) HandleLock(w http.ResponseWriter, r *http.Request) {
	h.setLockout(w, r, true)
}

// HandleUnlock godoc
//
//	@Summary	Unlock an account
//	@Tags		Admin
//	@Security	BearerAuth
//	@Success	204
//	@Failure	404	{object}	httpx.StatusResponse
//	@Router		/v1/admin/users/{id}/unlock [post].
func (h *AdminUsersHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	h.setLockout(w, r, false)
}

func (h *AdminUsersHandler) setLockout(w http.ResponseWriter, r *http.Request, locked bool) {
	id := r.PathValue("id")
	if id == "" {
		httpx.WriteStatus(w, http.StatusBadRequest, "Missing user id.")
		return
	}

	err := h.UserService.SetLockout(r.Context(), id, locked, nil)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteStatus(w, http.StatusNotFound, "User not found.")
	default:
		slogx.FromContext(r.Context()).Error("admin lockout update failed", "user_id", id, "err", err)
		httpx.WriteStatus(w, http.StatusInternalServerError, "Internal server error.")
	}
}
