package watchlist

import (
	"net/http"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/auth"
)

// WatchlistHandlers exposes WatchlistService over HTTP. Every route sits
// behind auth.JWTMiddleware.
type WatchlistHandlers struct {
	service *WatchlistService
}

// NewWatchlistHandlers creates the HTTP handlers for the watchlist routes.
// They must sit behind auth.JWTMiddleware; a request without an identity is 401.
func NewWatchlistHandlers(service *WatchlistService) *WatchlistHandlers {
	return &WatchlistHandlers{service: service}
}

func requester(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewUnauthenticatedError("Access token is missing!", nil))
	}
	return id, ok
}

// HandleAdd godoc
// @Summary Add a movie to the watchlist
// @Description Idempotent: adding a movie already on the list succeeds and changes nothing.
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body watchlist.AddRequest true "Movie to add"
// @Success 200 {object} watchlist.MessageResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /watchlist [post]
func (h *WatchlistHandlers) HandleAdd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}
		var req AddRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		resp, err := h.service.Add(r.Context(), id, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleList godoc
// @Summary List the watchlist
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Must be the caller's own id when given"
// @Success 200 {array} store.WatchlistEntry
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /watchlist [get]
func (h *WatchlistHandlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}
		claimed, err := ParseUserRef(r.URL.Query().Get("userId"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("Invalid user id!", err))
			return
		}

		entries, err := h.service.List(r.Context(), id, claimed)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, entries)
	}
}

// HandleRemove godoc
// @Summary Remove a movie from the watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body watchlist.RemoveRequest true "Movie to remove"
// @Success 200 {object} watchlist.MessageResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Movie not found in watchlist!"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /watchlist [delete]
func (h *WatchlistHandlers) HandleRemove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requester(w, r)
		if !ok {
			return
		}
		var req RemoveRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		resp, err := h.service.Remove(r.Context(), id, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, resp)
	}
}
