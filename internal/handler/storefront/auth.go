// Package storefront holds the customer-facing HTTP handlers: catalog
// browsing, account management, the cart, checkout and order history.
package storefront

import (
	"log/slog"
	"net/http"

	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/middleware"
	"github.com/hallgrim/vanir/internal/service"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	users         service.UserService
	carts         service.CartService
	sessions      service.SessionService
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates an AuthHandler instance.
func NewAuthHandler(users service.UserService, carts service.CartService, sessions service.SessionService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:         users,
		carts:         carts,
		sessions:      sessions,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// LocalCart is the anonymous client-side cart carried into login.
	// It gets reconciled against the account's server cart.
	LocalCart []service.LocalCartLine `json:"localCart"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type authResponse struct {
	User        userResponse         `json:"user"`
	CartID      string               `json:"cartId"`
	MergedItems []service.MergedLine `json:"mergedItems,omitempty"`
}

func accountToUserResponse(a *service.Account) userResponse {
	return userResponse{
		ID:    handler.UUIDString(a.User.ID),
		Email: a.User.Email,
		Name:  a.Profile.Name,
		Role:  a.User.Role,
	}
}

// Register creates an account and starts a session.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	account, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	token, err := h.sessions.CreateSession(r.Context(), handler.UUIDString(account.User.ID))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	setSessionCookie(w, token, service.SessionTTL, h.secureCookies)

	handler.JSON(w, http.StatusCreated, authResponse{
		User:   accountToUserResponse(account),
		CartID: account.CartID,
	})
}

// Login authenticates, starts a session and reconciles the submitted
// local cart against the account's server cart. The response carries
// the server-only lines the client should add to its view.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	account, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	token, err := h.sessions.CreateSession(r.Context(), handler.UUIDString(account.User.ID))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}
	setSessionCookie(w, token, service.SessionTTL, h.secureCookies)

	merged, err := h.carts.MergeLocalCart(r.Context(), account.CartID, req.LocalCart)
	if err != nil {
		// Login succeeded; a merge failure must not lock the user out.
		h.logger.Error("cart merge failed after login",
			"error", err, "cart_id", account.CartID)
		merged = nil
	}

	handler.JSON(w, http.StatusOK, authResponse{
		User:        accountToUserResponse(account),
		CartID:      account.CartID,
		MergedItems: merged,
	})
}

// Logout invalidates the current session and clears the cookie.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.InvalidateSession(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("session invalidation failed", "error", err)
		}
	}
	clearSessionCookie(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated account.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		handler.ErrorResponse(w, r, h.logger, service.ErrSessionNotFound)
		return
	}

	account, err := h.users.GetAccountByUserID(r.Context(), handler.UUIDString(user.ID))
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	handler.JSON(w, http.StatusOK, authResponse{
		User:   accountToUserResponse(account),
		CartID: account.CartID,
	})
}

// currentAccount resolves the session user into a full account. Shared
// by the cart, checkout and order handlers.
func currentAccount(r *http.Request, users service.UserService) (*service.Account, error) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		return nil, service.ErrSessionNotFound
	}
	return users.GetAccountByUserID(r.Context(), handler.UUIDString(user.ID))
}
