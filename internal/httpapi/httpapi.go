// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package httpapi adapts request/response handler funcs to JSON over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Error carries an HTTP status for a handler failure. Handler errors without
// one map to 500 with a generic message, raw errors never reach the user.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d): %v", e.Message, e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns an error rendered with the given status and user-safe
// message.
func NewError(status int, message string, err error) error {
	return &Error{Status: status, Message: message, Err: err}
}

type errorBody struct {
	Error string `json:"error"`
}

// Handler adapts a typed unary handler func to an http.HandlerFunc decoding
// the request from the JSON body. GET requests decode an empty request.
func Handler[Req any, Res any](fn func(ctx context.Context, req *Req) (*Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
				return
			}
		}

		res, err := fn(r.Context(), &req)
		if err != nil {
			status := http.StatusInternalServerError
			message := "couldn't continue, please try again"
			var herr *Error
			if errors.As(err, &herr) {
				status = herr.Status
				message = herr.Message
			}
			slog.ErrorContext(r.Context(), "httpapi: handling request", "path", r.URL.Path, "error", err)
			writeJSON(w, status, errorBody{Error: message})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("httpapi: encoding response", "error", err)
	}
}
