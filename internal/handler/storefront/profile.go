package storefront

import (
	"net/http"

	"github.com/hallgrim/vanir/internal/handler"
	"github.com/hallgrim/vanir/internal/service"
)

type addressRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Address1 string `json:"address1" validate:"required,max=200"`
	Address2 string `json:"address2" validate:"max=200"`
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=50"`
	Zip      string `json:"zip" validate:"required,max=20"`
}

type profileResponse struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// UpdateAddress saves the shipping address on the account's profile.
// PUT /account/address
func (h *AuthHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	account, err := currentAccount(r, h.users)
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	var req addressRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	profile, err := h.users.UpdateProfileAddress(r.Context(), handler.UUIDString(account.Profile.ID), service.UpdateAddressParams{
		Name:     req.Name,
		Address1: req.Address1,
		Address2: req.Address2,
		City:     req.City,
		State:    req.State,
		Zip:      req.Zip,
	})
	if err != nil {
		handler.ErrorResponse(w, r, h.logger, err)
		return
	}

	handler.JSON(w, http.StatusOK, profileResponse{
		Name:     profile.Name,
		Address1: profile.Address1,
		Address2: profile.Address2,
		City:     profile.City,
		State:    profile.State,
		Zip:      profile.Zip,
	})
}
