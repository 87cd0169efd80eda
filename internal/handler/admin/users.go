package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hallgrim/vanir/internal/domain"
	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/middleware"
	"github.com/hallgrim/vanir/internal/service"
)

// UserHandler manages customer accounts.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler instance.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type userRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns all accounts.
// GET /admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]userRow, 0, len(users))
	for _, u := range users {
		out = append(out, userRow{
			ID:        handler.UUIDString(u.ID),
			Email:     u.Email,
			Name:      u.Name,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.Time,
		})
	}
	handler.JSON(w, http.StatusOK, map[string]any{"users": out})
}

// Delete removes an account with its profile, cart and sessions.
// Admins cannot delete themselves.
// DELETE /admin/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")
	if admin := middleware.GetUserFromContext(r.Context()); admin != nil && handler.UUIDString(admin.ID) == targetID {
		handler.ErrorResponse(w, r, h.logger,
			domain.Invalid("admin.user.delete", "Cannot delete your own account"))
		return
	}

	if err := h.users.DeleteUser(r.Context(), targetID); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
