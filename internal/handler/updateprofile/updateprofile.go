// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package updateprofile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/session"
	"github.com/curioswitch/fitchat/server/internal/store"
	"github.com/curioswitch/fitchat/server/internal/util"
)

func NewHandler(profiles store.Profiles, storage *storage.Client, publicBucket string) *Handler {
	return &Handler{
		profiles:     profiles,
		storage:      storage,
		publicBucket: publicBucket,
	}
}

type Handler struct {
	profiles     store.Profiles
	storage      *storage.Client
	publicBucket string
}

type UpdateProfileRequest struct {
	DisplayName        string  `json:"displayName"`
	Age                int     `json:"age"`
	Gender             string  `json:"gender"`
	HeightCm           float64 `json:"heightCm"`
	WeightKg           float64 `json:"weightKg"`
	Goals              string  `json:"goals"`
	ActivityPreference string  `json:"activityPreference"`
	DaysPerWeek        int     `json:"daysPerWeek"`
	Injuries           string  `json:"injuries"`
	FoodDislikes       string  `json:"foodDislikes"`

	// AvatarDataURL is an optional image data URL to store as the avatar.
	AvatarDataURL string `json:"avatarDataUrl"`
}

type UpdateProfileResponse struct {
	Profile *fitchatdb.UserProfile `json:"profile"`
	State   session.State          `json:"state"`
}

// UpdateProfile saves the user-editable profile fields. The completion flag is
// only set once every required field is present, partial saves are allowed and
// leave the session gated to the profile screen.
func (h *Handler) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*UpdateProfileResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("updateprofile: no identity"))
	}

	profile := &fitchatdb.UserProfile{
		DisplayName:        req.DisplayName,
		Age:                req.Age,
		Gender:             req.Gender,
		HeightCm:           req.HeightCm,
		WeightKg:           req.WeightKg,
		Goals:              req.Goals,
		ActivityPreference: req.ActivityPreference,
		DaysPerWeek:        req.DaysPerWeek,
		Injuries:           req.Injuries,
		FoodDislikes:       req.FoodDislikes,
	}

	if req.AvatarDataURL != "" {
		url, err := h.saveAvatar(ctx, fmt.Sprintf("users/%s/avatar", userID), req.AvatarDataURL)
		if err != nil {
			return nil, httpapi.NewError(http.StatusBadRequest, "couldn't read the avatar image", err)
		}
		profile.AvatarURL = url
	} else {
		existing, err := h.profiles.Profile(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("updateprofile: fetching profile: %w", err)
		}
		if existing != nil {
			profile.AvatarURL = existing.AvatarURL
		}
	}

	profile.ProfileCompleted = session.RequiredFieldsPresent(profile)

	if err := h.profiles.SaveProfile(ctx, userID, profile); err != nil {
		return nil, fmt.Errorf("updateprofile: saving profile: %w", err)
	}

	saved, err := h.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("updateprofile: fetching saved profile: %w", err)
	}
	return &UpdateProfileResponse{
		Profile: saved,
		State:   session.Derive(saved, true),
	}, nil
}

func (h *Handler) saveAvatar(ctx context.Context, pathNoExt string, dataURL string) (string, error) {
	ct, ext, bytes, err := util.ParseImageDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("updateprofile: parsing avatar: %w", err)
	}
	path := pathNoExt + "." + ext

	w := h.storage.Bucket(h.publicBucket).Object(path).NewWriter(ctx)
	w.ContentType = ct
	if _, err := w.Write(bytes); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("updateprofile: saving avatar: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("updateprofile: closing writer: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.publicBucket, path), nil
}
