// Copyright (c) 2026 Mogcord. All rights reserved.

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Successful responses use a uniform data envelope; failures are rendered
// as the error envelope {error:{req_id, type, type_info, extra?}} with the
// status derived from the error's kind. The original error value is also
// parked in the per-request holder so the logging pipeline can persist the
// full chain after the handler returns.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/ctxkey"
	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Data interface{} `json:"data"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Data interface{}     `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the client-visible failure description.
type ErrorBody struct {
	ReqID    string `json:"req_id"`
	Type     string `json:"type"`
	TypeInfo string `json:"type_info"`
	Extra    string `json:"extra,omitempty"`
}

// ErrorHolder is the per-request slot the response tap reads after the
// handler finishes. It is installed by the logging middleware and written
// at most once per request by [Error].
type ErrorHolder struct {
	Err error
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes a 200 OK response with paginated data and a metadata block.
func Paginated(writer http.ResponseWriter, data interface{}, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error renders err as the standard error envelope and records it for the
// request-logging pipeline. Foreign errors are wrapped as Unexpected first.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.FromChild(err)
	}

	// Park the full chain for the response tap.
	if holder, ok := request.Context().Value(ctxkey.KeyServerError).(*ErrorHolder); ok {
		holder.Err = appError
	}

	status := appError.Status()
	if status == http.StatusNoContent {
		writer.WriteHeader(status)
		return
	}

	tag := appError.Client
	if tag == apperr.ClientNone {
		tag = apperr.ClientServiceError
	}

	JSON(writer, status, ErrorEnvelope{
		Error: ErrorBody{
			ReqID:    ctxutil.GetRequestID(request.Context()),
			Type:     tag.Name(),
			TypeInfo: tag.Message(),
			Extra:    appError.Public,
		},
	})
}
