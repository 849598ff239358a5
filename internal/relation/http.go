// Copyright (c) 2026 Mogcord. All rights reserved.

package relation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mogcord/mogcord/internal/platform/request"
	"github.com/mogcord/mogcord/internal/platform/respond"
	"github.com/mogcord/mogcord/internal/platform/validate"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// Handler implements the social graph HTTP endpoints.
type Handler struct {
	relationService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{relationService: service}
}

// FriendRoutes returns the friendship routes. All require authentication.
// The mutating endpoints take the target user in the request body.
//
// # Endpoints
//   - GET    /         : Pages through the caller's friends.
//   - POST   /         : Sends a friend request.
//   - POST   /confirm  : Accepts an incoming request.
//   - DELETE /         : Removes the friendship (both directions).
func (handler *Handler) FriendRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listFriends)
	router.Post("/", handler.addFriend)
	router.Post("/confirm", handler.confirmFriend)
	router.Delete("/", handler.removeFriend)

	return router
}

// BlockedRoutes returns the block-list routes. All require authentication.
// The mutating endpoints take the target user in the request body.
//
// # Endpoints
//   - GET    / : Pages through the caller's blocked users.
//   - POST   / : Blocks a user.
//   - DELETE / : Unblocks a user.
func (handler *Handler) BlockedRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listBlocked)
	router.Post("/", handler.block)
	router.Delete("/", handler.unblock)

	return router
}

// targetRequest names the other side of a graph mutation.
type targetRequest struct {
	UserID string `json:"user_id"`
}

// mutate factors the shared shape of all graph mutations: resolve the
// caller, decode and validate the target id, run the operation, answer 204.
func (handler *Handler) mutate(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(ctx *http.Request, userID, otherID string) error,
) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input targetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.UUID("user_id", input.UserID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := operation(request, authCtx.UserID, input.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// addFriend handles POST /users/friends requests.
func (handler *Handler) addFriend(writer http.ResponseWriter, request *http.Request) {
	handler.mutate(writer, request, func(r *http.Request, userID, otherID string) error {
		return handler.relationService.AddFriend(r.Context(), userID, otherID)
	})
}

// confirmFriend handles POST /users/friends/confirm requests.
func (handler *Handler) confirmFriend(writer http.ResponseWriter, request *http.Request) {
	handler.mutate(writer, request, func(r *http.Request, userID, otherID string) error {
		return handler.relationService.ConfirmFriend(r.Context(), userID, otherID)
	})
}

// removeFriend handles DELETE /users/friends requests.
func (handler *Handler) removeFriend(writer http.ResponseWriter, request *http.Request) {
	handler.mutate(writer, request, func(r *http.Request, userID, otherID string) error {
		return handler.relationService.RemoveFriend(r.Context(), userID, otherID)
	})
}

// block handles POST /users/blocked requests.
func (handler *Handler) block(writer http.ResponseWriter, request *http.Request) {
	handler.mutate(writer, request, func(r *http.Request, userID, otherID string) error {
		return handler.relationService.Block(r.Context(), userID, otherID)
	})
}

// unblock handles DELETE /users/blocked requests.
func (handler *Handler) unblock(writer http.ResponseWriter, request *http.Request) {
	handler.mutate(writer, request, func(r *http.Request, userID, otherID string) error {
		return handler.relationService.Unblock(r.Context(), userID, otherID)
	})
}

// listFriends handles GET /users/friends requests.
func (handler *Handler) listFriends(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	accounts, meta, err := handler.relationService.ListFriends(request.Context(), authCtx.UserID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}

// listBlocked handles GET /users/blocked requests.
func (handler *Handler) listBlocked(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	accounts, meta, err := handler.relationService.ListBlocked(request.Context(), authCtx.UserID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}
