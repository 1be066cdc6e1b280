package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/logging"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

const msgInvalidBody = "Invalid request body!"

// Handlers exposes AuthService over HTTP.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates the HTTP handlers for signup and login on top of service.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleSignup godoc
// @Summary Create an account
// @Description Registers a new account. The email is stored lower-cased.
// @Tags Auth
// @Accept json
// @Produce json
// @Param signupBody body auth.SignupRequest true "Account details"
// @Success 201 {object} auth.MessageResponse "User created successfully!"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields, or username/email already taken"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /signup [post]
func (h *Handlers) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		resp, err := h.service.Signup(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, resp)
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Verifies a username or email plus password and returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "Credentials"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} apperror.ErrorResponse "Invalid credentials!"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// DecodeJSON reads a JSON body of at most 1 MiB into dst. Failures come back
// as a BadRequest AppError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewBadRequestError(msgInvalidBody, errors.New("empty body"))
		}
		return apperror.NewBadRequestError(msgInvalidBody, err)
	}
	return nil
}

// WriteJSON serializes data with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		// The status line is already out; nothing useful can be sent on failure.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes err as the standard error body. Errors that are not
// AppErrors become a 500 with a generic message. Server-side failures are
// logged with their cause; the cause never reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError(msgServerError, err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", appErr.Error())
	}
	WriteJSON(w, status, appErr.ToResponse())
}
