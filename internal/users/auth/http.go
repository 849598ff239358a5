// Copyright (c) 2026 Mogcord. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/cookie"
	"github.com/mogcord/mogcord/internal/platform/middleware"
	requestutil "github.com/mogcord/mogcord/internal/platform/request"
	"github.com/mogcord/mogcord/internal/platform/respond"
	"github.com/mogcord/mogcord/internal/platform/validate"
)

// Handler implements the session HTTP endpoints.
//
// # Scope
//
// This handler owns the translation between the three-cookie session model
// (ACCES_TOKEN, SESSION_TOKEN, DEVICE_ID) and the session service. Cookies
// never leak below this layer.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns the session routes.
//
// # Endpoints
//   - POST   /login      : Authenticates and sets the session cookies.
//   - POST   /refresh    : Rotates an expired access token.
//   - DELETE /revoke     : Ends the session on this device.
//   - DELETE /revoke/all : Ends every session of the caller.
//
// The login rate limiter is mounted by the server around /login only.
func (handler *Handler) Routes(loginLimiter func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.With(loginLimiter).Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Delete("/revoke", handler.revoke)
	router.Delete("/revoke/all", handler.revokeAll)

	return router
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK with the account and sets all three session cookies.
//   - Writes HTTP 401 Unauthorized for bad credentials.
//   - Writes HTTP 403 Forbidden for flagged accounts.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required("email", input.Email).
		Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	// A returning device presents its DEVICE_ID cookie; first logins don't.
	deviceID, _ := cookie.Get(request, cookie.DeviceID)

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
		DeviceID: deviceID,
		IPAddr:   middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	cookie.Set(writer, cookie.AccesToken, session.AccessToken)
	cookie.Set(writer, cookie.SessionToken, session.RefreshValue)
	cookie.Set(writer, cookie.DeviceID, session.DeviceID)

	respond.OK(writer, session.Account)
}

// refresh handles POST /auth/refresh requests.
//
// On any rotation failure the access and refresh cookies are cleared so
// the browser falls back to a clean login. The device cookie survives.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	accessToken, accessErr := cookie.Get(request, cookie.AccesToken)
	refreshValue, refreshErr := cookie.Get(request, cookie.SessionToken)
	deviceID, deviceErr := cookie.Get(request, cookie.DeviceID)

	if accessErr != nil || refreshErr != nil || deviceErr != nil {
		handler.clearSession(writer)
		respond.Error(writer, request, apperr.New(apperr.KindNoAuth, apperr.SubjectCookie).
			AddClient(apperr.ClientNoAuth))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), RefreshInput{
		AccessToken:  accessToken,
		RefreshValue: refreshValue,
		DeviceID:     deviceID,
	})
	if err != nil {
		handler.clearSession(writer)
		respond.Error(writer, request, err)
		return
	}

	cookie.Set(writer, cookie.AccesToken, session.AccessToken)
	cookie.Set(writer, cookie.SessionToken, session.RefreshValue)
	cookie.Set(writer, cookie.DeviceID, session.DeviceID)

	respond.OK(writer, session.Account)
}

// revoke handles DELETE /auth/revoke requests.
func (handler *Handler) revoke(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deviceID, err := cookie.Get(request, cookie.DeviceID)
	if err != nil {
		respond.Error(writer, request, apperr.NewFromChild(err, apperr.KindNoAuth, apperr.SubjectCookie).
			AddClient(apperr.ClientNoAuth))
		return
	}

	if err := handler.authService.Revoke(request.Context(), authCtx.UserID, deviceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSession(writer)
	respond.NoContent(writer)
}

// revokeAll handles DELETE /auth/revoke/all requests.
func (handler *Handler) revokeAll(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RevokeAll(request.Context(), authCtx.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSession(writer)
	respond.NoContent(writer)
}

// clearSession evicts the auth cookies but keeps the device identity.
func (handler *Handler) clearSession(writer http.ResponseWriter) {
	cookie.Clear(writer, cookie.AccesToken)
	cookie.Clear(writer, cookie.SessionToken)
}
