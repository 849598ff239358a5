// Copyright (c) 2026 Mogcord. All rights reserved.

package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mogcord/mogcord/internal/platform/request"
	"github.com/mogcord/mogcord/internal/platform/respond"
	"github.com/mogcord/mogcord/internal/platform/validate"
)

// Handler implements the conversation HTTP endpoints.
type Handler struct {
	chatService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{chatService: service}
}

// ChatRoutes returns the conversation routes. All require authentication.
//
// # Endpoints
//   - GET  /               : Lists the caller's conversations.
//   - GET  /{chatID}       : Fetches one conversation.
//   - POST /               : Opens a private or group chat, by body shape.
//   - POST /{chatID}/users : Invites more users into a group.
func (handler *Handler) ChatRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listChats)
	router.Get("/{chatID}", handler.getChat)
	router.Post("/", handler.createChat)
	router.Post("/{chatID}/users", handler.addUsersToGroup)

	return router
}

// ServerRoutes returns the community routes. All require authentication.
//
// # Endpoints
//   - POST /                      : Founds a server.
//   - GET  /{serverID}            : Fetches a server, channels narrowed to the caller.
//   - POST /{serverID}/join       : Joins a server.
//   - POST /{serverID}/channels   : Adds a channel (owner only).
func (handler *Handler) ServerRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createServer)
	router.Get("/{serverID}", handler.getServer)
	router.Post("/{serverID}/join", handler.joinServer)
	router.Post("/{serverID}/channels", handler.addChannel)

	return router
}

// listChats handles GET /chat requests.
func (handler *Handler) listChats(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	parents, err := handler.chatService.GetChatsByUser(request.Context(), authCtx.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, parents)
}

// getChat handles GET /chat/{chatID} requests.
func (handler *Handler) getChat(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chatID := requestutil.Param(request, "chatID")
	validator := &validate.Validator{}
	if err := validator.UUID("chatID", chatID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	parent, err := handler.chatService.GetByID(request.Context(), authCtx.UserID, chatID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, parent)
}

// groupPayload carries the group name and invitee list.
type groupPayload struct {
	Name    string   `json:"name"`
	UserIDs []string `json:"user_ids"`
}

// createChatRequest is the union body of POST /chat. A bare user_id opens
// a private chat; a group payload opens a group. Exactly one must be set.
type createChatRequest struct {
	UserID string        `json:"user_id,omitempty"`
	Group  *groupPayload `json:"group,omitempty"`
}

// createChat handles POST /chat requests, dispatching on the body shape.
func (handler *Handler) createChat(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createChatRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Custom("body", (input.UserID == "") == (input.Group == nil),
		"exactly one of user_id or group must be set")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Group == nil {
		handler.createPrivate(writer, request, authCtx.UserID, input.UserID)
		return
	}
	handler.createGroup(writer, request, authCtx.UserID, input.Group)
}

// createPrivate serves the private branch of POST /chat.
func (handler *Handler) createPrivate(writer http.ResponseWriter, request *http.Request, callerID, otherID string) {
	validator := &validate.Validator{}
	if err := validator.UUID("user_id", otherID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	private, err := handler.chatService.CreatePrivate(request.Context(), callerID, otherID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, private)
}

// createGroup serves the group branch of POST /chat.
func (handler *Handler) createGroup(writer http.ResponseWriter, request *http.Request, callerID string, payload *groupPayload) {
	validator := &validate.Validator{}
	validator.Required("name", payload.Name).
		MaxLen("name", payload.Name, 64).
		UUIDs("user_ids", payload.UserIDs)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	group, err := handler.chatService.CreateGroup(request.Context(), callerID, payload.Name, payload.UserIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, group)
}

// addUsersRequest carries the invitee list for an existing group.
type addUsersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// addUsersToGroup handles POST /chat/{chatID}/users requests.
func (handler *Handler) addUsersToGroup(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chatID := requestutil.Param(request, "chatID")

	var input addUsersRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.UUID("chatID", chatID).
		Custom("user_ids", len(input.UserIDs) == 0, "must not be empty").
		UUIDs("user_ids", input.UserIDs)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	group, err := handler.chatService.AddUsersToGroup(request.Context(), authCtx.UserID, chatID, input.UserIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, group)
}

// createServerRequest carries the new community's name.
type createServerRequest struct {
	Name string `json:"name"`
}

// createServer handles POST /servers requests.
func (handler *Handler) createServer(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createServerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 64)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	server, err := handler.chatService.CreateServer(request.Context(), authCtx.UserID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, server)
}

// getServer handles GET /servers/{serverID} requests.
//
// The response carries only the channels the caller may read.
func (handler *Handler) getServer(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	serverID := requestutil.Param(request, "serverID")
	validator := &validate.Validator{}
	if err := validator.UUID("serverID", serverID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	server, err := handler.chatService.GetServerByID(request.Context(), authCtx.UserID, serverID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, server)
}

// joinServer handles POST /servers/{serverID}/join requests.
func (handler *Handler) joinServer(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	serverID := requestutil.Param(request, "serverID")
	validator := &validate.Validator{}
	if err := validator.UUID("serverID", serverID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	server, err := handler.chatService.JoinServer(request.Context(), authCtx.UserID, serverID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, server)
}

// addChannelRequest carries the new channel's name.
type addChannelRequest struct {
	Name string `json:"name"`
}

// addChannel handles POST /servers/{serverID}/channels requests.
func (handler *Handler) addChannel(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	serverID := requestutil.Param(request, "serverID")

	var input addChannelRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.UUID("serverID", serverID).
		Required("name", input.Name).
		MaxLen("name", input.Name, 64)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	server, err := handler.chatService.AddChannel(request.Context(), authCtx.UserID, serverID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, server)
}
