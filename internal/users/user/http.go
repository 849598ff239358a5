// Copyright (c) 2026 Mogcord. All rights reserved.

// HTTP delivery layer for the account domain.
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mogcord/mogcord/internal/platform/request"
	"github.com/mogcord/mogcord/internal/platform/respond"
	"github.com/mogcord/mogcord/internal/platform/validate"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// Handler implements account HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns the public account routes.
//
// # Endpoints
//   - POST /        : Creates a new account.
//   - GET  /current : Returns the authenticated caller's account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/current", handler.getCurrent)

	return router
}

// AdminRoutes returns the elevated account routes.
//
// # Endpoints
//   - GET   /          : Pages through all accounts.
//   - POST  /          : Bulk-provisions accounts.
//   - GET   /{userID}  : Fetches one account by ID.
//   - PATCH /{userID}/flag : Replaces an account's lifecycle flag.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getPaged)
	router.Post("/", handler.createMany)
	router.Get("/{userID}", handler.getByID)
	router.Patch("/{userID}/flag", handler.updateFlag)

	return router
}

// createRequest represents the JSON payload expected for account creation.
type createRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// create handles POST /users requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the account.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if email/username is taken.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required("username", input.Username).
		MinLen("username", input.Username, 3).
		MaxLen("username", input.Username, 32).
		Required("email", input.Email).
		Email("email", input.Email).
		MinLen("password", input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	account, err := handler.userService.Create(request.Context(), CreateInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, account)
}

// getCurrent handles GET /users/current requests.
func (handler *Handler) getCurrent(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.userService.GetByID(request.Context(), authCtx.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// getPaged handles GET /admin/users requests.
func (handler *Handler) getPaged(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	accounts, meta, err := handler.userService.GetPaged(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}

// createManyRequest represents the JSON payload for bulk provisioning.
type createManyRequest struct {
	Users []createRequest `json:"users"`
}

// createMany handles POST /admin/users requests.
func (handler *Handler) createMany(writer http.ResponseWriter, request *http.Request) {
	var input createManyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Custom("users", len(input.Users) == 0, "must not be empty")
	for _, entry := range input.Users {
		validator.Required("username", entry.Username).
			Required("email", entry.Email).
			MinLen("password", entry.Password, 8)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	inputs := make([]CreateInput, 0, len(input.Users))
	for _, entry := range input.Users {
		inputs = append(inputs, CreateInput{
			Username: entry.Username,
			Email:    entry.Email,
			Password: entry.Password,
		})
	}

	accounts, err := handler.userService.CreateMany(request.Context(), inputs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, accounts)
}

// getByID handles GET /admin/users/{userID} requests.
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	if err := validator.UUID("userID", userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.userService.GetByID(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// updateFlagRequest carries the wire form of the replacement flag.
type updateFlagRequest struct {
	Flag string `json:"flag"`
}

// updateFlag handles PATCH /admin/users/{userID}/flag requests.
func (handler *Handler) updateFlag(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	if err := validator.UUID("userID", userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateFlagRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	flag, err := ParseUserFlag(input.Flag)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.UpdateFlag(request.Context(), userID, flag); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
