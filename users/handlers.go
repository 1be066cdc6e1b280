package users

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/auth"
)

// UserHandlers exposes UserService over HTTP.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates the HTTP handlers for user lookups.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// HandleGetUsername godoc
// @Summary Get a user's username
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} users.UsernameResponse
// @Failure 400 {object} apperror.ErrorResponse "Invalid user id"
// @Failure 401 {object} apperror.ErrorResponse "No token supplied"
// @Failure 403 {object} apperror.ErrorResponse "Token rejected"
// @Failure 404 {object} apperror.ErrorResponse "User not found!"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /user/{id} [get]
func (h *UserHandlers) HandleGetUsername() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewUnauthenticatedError("Access token is missing!", nil))
			return
		}

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError(msgInvalidUserID, err))
			return
		}

		resp, err := h.service.GetUsername(r.Context(), requester, targetID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, resp)
	}
}
