// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package getmessages

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/store"
)

func NewHandler(messages store.Messages) *Handler {
	return &Handler{
		messages: messages,
	}
}

type Handler struct {
	messages store.Messages
}

type GetMessagesRequest struct{}

type GetMessagesResponse struct {
	Messages []fitchatdb.ChatMessage `json:"messages"`
}

func (h *Handler) GetMessages(ctx context.Context, _ *GetMessagesRequest) (*GetMessagesResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("getmessages: no identity"))
	}

	msgs, err := h.messages.Messages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getmessages: fetching messages: %w", err)
	}
	return &GetMessagesResponse{Messages: msgs}, nil
}
