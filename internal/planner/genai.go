// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/llm"
)

// NewGenAI returns a Generator backed by Gemini structured output.
func NewGenAI(client *genai.Client, model string) *GenAI {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GenAI{client: client, model: model}
}

type GenAI struct {
	client *genai.Client
	model  string
}

func (g *GenAI) GeneratePlan(ctx context.Context, contextText string, profile *fitchatdb.UserProfile) (*fitchatdb.Plan, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("planner: marshalling profile to JSON: %w", err)
	}

	content := []*genai.Content{
		genai.NewContentFromText("User profile:\n"+string(profileJSON), genai.RoleUser),
		genai.NewContentFromText("Onboarding answers:\n"+contextText, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, content, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.GeneratePlanPrompt(ctx), genai.RoleModel),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    planSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("planner: calling GenerateContent: %w", err)
	}
	if len(res.Candidates) != 1 || len(res.Candidates[0].Content.Parts) != 1 || res.Candidates[0].Content.Parts[0].Text == "" {
		return nil, fmt.Errorf("planner: unexpected response from generate ai: %v", res)
	}

	var plan fitchatdb.Plan
	if err := json.Unmarshal([]byte(res.Candidates[0].Content.Parts[0].Text), &plan); err != nil {
		return nil, fmt.Errorf("planner: failed to unmarshal received plan: %w", err)
	}
	return &plan, nil
}

func (g *GenAI) CompletionMessage(ctx context.Context, profile *fitchatdb.UserProfile) (string, error) {
	name := ""
	if profile != nil {
		name = profile.DisplayName
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText("The user's name is "+name+".", genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.CompletionMessagePrompt(ctx), genai.RoleModel),
	})
	if err != nil {
		return "", fmt.Errorf("planner: calling GenerateContent for completion message: %w", err)
	}
	if len(res.Candidates) != 1 || len(res.Candidates[0].Content.Parts) != 1 || res.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("planner: unexpected completion message response from generate ai: %v", res)
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}

var planSchema = &genai.Schema{
	Type: "object",
	Properties: map[string]*genai.Schema{
		"days": {
			Type:        "array",
			Description: "The days of the plan.",
			Items: &genai.Schema{
				Type:        "object",
				Description: "The meals and workout for a single day.",
				Properties: map[string]*genai.Schema{
					"label": {
						Type:        "string",
						Description: "A short label for the day, e.g. Day 1.",
					},
					"meals": {
						Type:        "array",
						Description: "The meals for the day.",
						Items: &genai.Schema{
							Type: "object",
							Properties: map[string]*genai.Schema{
								"name": {
									Type:        "string",
									Description: "The name of the meal, e.g. breakfast.",
								},
								"description": {
									Type:        "string",
									Description: "What to prepare and eat.",
								},
							},
							Required: []string{"name", "description"},
						},
					},
					"exercises": {
						Type:        "array",
						Description: "The workout for the day. Empty on rest days.",
						Items: &genai.Schema{
							Type: "object",
							Properties: map[string]*genai.Schema{
								"name": {
									Type:        "string",
									Description: "The name of the exercise.",
								},
								"sets": {
									Type:        "integer",
									Description: "The number of sets.",
								},
								"reps": {
									Type:        "string",
									Description: "The repetitions per set, may be a range or duration.",
								},
								"notes": {
									Type:        "string",
									Description: "Any guidance for performing the exercise.",
								},
							},
							Required: []string{"name", "sets", "reps"},
						},
					},
				},
				Required: []string{"label", "meals"},
			},
		},
		"notes": {
			Type:        "array",
			Description: "Any overall guidance for following the plan.",
			Items: &genai.Schema{
				Type: "string",
			},
		},
	},
	Required: []string{"days"},
}
