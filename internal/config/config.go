// Copyright (c) Choko (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"github.com/curioswitch/go-curiostack/config"
)

type Planner struct {
	// Provider is the model provider for plan generation, genai or openai.
	Provider string `koanf:"provider"`

	// Model overrides the provider's default model when set.
	Model string `koanf:"model"`
}

type Onboarding struct {
	// AutoAdvanceDelayMillis paces informational onboarding steps before they
	// advance on their own. Zero advances immediately.
	AutoAdvanceDelayMillis int `koanf:"autoadvancedelaymillis"`
}

type Config struct {
	config.Common

	// Planner is the configuration for plan generation.
	Planner Planner `koanf:"planner"`

	// Onboarding is the configuration for the onboarding conversation.
	Onboarding Onboarding `koanf:"onboarding"`
}
