// Copyright (c) 2026 Mogcord. All rights reserved.

package message

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mogcord/mogcord/internal/platform/request"
	"github.com/mogcord/mogcord/internal/platform/respond"
	"github.com/mogcord/mogcord/internal/platform/validate"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// maxMessageLength bounds a single message's character count.
const maxMessageLength = 2000

// Handler implements the message HTTP endpoints.
type Handler struct {
	messageService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{messageService: service}
}

// Routes returns the message routes, mounted under a channel.
//
// # Endpoints
//   - GET    /{channelID}/messages              : Pages through history.
//   - POST   /{channelID}/messages              : Posts a message.
//   - PATCH  /{channelID}/messages/{messageID}  : Edits a message.
//   - DELETE /{channelID}/messages/{messageID}  : Soft-deletes a message.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{channelID}/messages", handler.list)
	router.Post("/{channelID}/messages", handler.create)
	router.Patch("/{channelID}/messages/{messageID}", handler.update)
	router.Delete("/{channelID}/messages/{messageID}", handler.remove)

	return router
}

// messageRequest carries a message's text.
type messageRequest struct {
	Value string `json:"value"`
}

// list handles GET /channels/{channelID}/messages requests.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channelID := requestutil.Param(request, "channelID")
	validator := &validate.Validator{}
	if err := validator.UUID("channelID", channelID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	messages, meta, err := handler.messageService.GetByChannel(request.Context(), authCtx.UserID, channelID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, messages, meta)
}

// create handles POST /channels/{channelID}/messages requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channelID := requestutil.Param(request, "channelID")

	var input messageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.UUID("channelID", channelID).
		Required("value", input.Value).
		MaxLen("value", input.Value, maxMessageLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	msg, err := handler.messageService.Create(request.Context(), authCtx.UserID, channelID, input.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, msg)
}

// update handles PATCH /channels/{channelID}/messages/{messageID} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channelID := requestutil.Param(request, "channelID")
	messageID := requestutil.Param(request, "messageID")

	var input messageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.UUID("channelID", channelID).
		UUID("messageID", messageID).
		Required("value", input.Value).
		MaxLen("value", input.Value, maxMessageLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	msg, err := handler.messageService.Update(request.Context(), authCtx.UserID, channelID, messageID, input.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, msg)
}

// remove handles DELETE /channels/{channelID}/messages/{messageID} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	authCtx, err := requestutil.RequiredCtx(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channelID := requestutil.Param(request, "channelID")
	messageID := requestutil.Param(request, "messageID")

	validator := &validate.Validator{}
	validator.UUID("channelID", channelID).UUID("messageID", messageID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.messageService.Delete(request.Context(), authCtx.UserID, channelID, messageID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
