// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/llm"
)

// NewOpenAI returns a Generator backed by the OpenAI chat completions API.
func NewOpenAI(client *openai.Client, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAI{client: client, model: model}
}

type OpenAI struct {
	client *openai.Client
	model  string
}

func (o *OpenAI) GeneratePlan(ctx context.Context, contextText string, profile *fitchatdb.UserProfile) (*fitchatdb.Plan, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("planner: marshalling profile to JSON: %w", err)
	}

	prompt := llm.GeneratePlanPrompt(ctx) + `
Respond with only a JSON object of the form
{"days": [{"label": string, "meals": [{"name": string, "description": string}], "exercises": [{"name": string, "sets": number, "reps": string, "notes": string}]}], "notes": [string]}
with no surrounding text or code fences.
`

	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage("User profile:\n" + string(profileJSON)),
			openai.UserMessage("Onboarding answers:\n" + contextText),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("planner: calling chat completions: %w", err)
	}
	if len(res.Choices) != 1 || res.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("planner: unexpected response from chat completions: %v", res)
	}

	text := res.Choices[0].Message.Content
	// Some models wrap JSON in fences despite instructions.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var plan fitchatdb.Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("planner: failed to unmarshal received plan: %w", err)
	}
	return &plan, nil
}

func (o *OpenAI) CompletionMessage(ctx context.Context, profile *fitchatdb.UserProfile) (string, error) {
	name := ""
	if profile != nil {
		name = profile.DisplayName
	}
	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.CompletionMessagePrompt(ctx)),
			openai.UserMessage("The user's name is " + name + "."),
		},
	})
	if err != nil {
		return "", fmt.Errorf("planner: calling chat completions for completion message: %w", err)
	}
	if len(res.Choices) != 1 || res.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("planner: unexpected completion message response from chat completions: %v", res)
	}
	return res.Choices[0].Message.Content, nil
}
