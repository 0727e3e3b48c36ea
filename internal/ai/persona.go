// Package ai generates artist persona chat and DM auto-replies through an
// OpenAI-compatible chat completion API.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sori-music/backend/pkg/logger"
	"go.uber.org/zap"
)

const defaultModel = "gpt-4o-mini"

// ChatTurn is one prior exchange in a conversation.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// PersonaClient produces persona-grounded completions for artist chat and
// DM auto-replies.
type PersonaClient struct {
	client openai.Client
	model  string
}

// NewPersonaClient creates a PersonaClient against an OpenAI-compatible
// endpoint. model may be empty to use the default.
func NewPersonaClient(apiKey, baseURL, model string) *PersonaClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = defaultModel
	}
	return &PersonaClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// personaPrompt frames the model as the artist talking to a fan.
func personaPrompt(artistName, bio string) string {
	prompt := fmt.Sprintf(
		"You are %s, a musician, chatting with a fan inside a music app. "+
			"Stay in character, keep replies warm and short (one or two sentences), "+
			"and never mention being an AI.", artistName)
	if bio != "" {
		prompt += " About you: " + bio
	}
	return prompt
}

// ArtistChat answers a fan message in the artist's voice, carrying the prior
// turns of the conversation.
func (p *PersonaClient) ArtistChat(ctx context.Context, artistName, bio string, history []ChatTurn, message string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(personaPrompt(artistName, bio)),
	}
	for _, turn := range history {
		if turn.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	return p.complete(ctx, messages)
}

// AutoReply drafts a DM reply in the artist's voice for a single incoming
// message.
func (p *PersonaClient) AutoReply(ctx context.Context, artistName, bio, incoming string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(personaPrompt(artistName, bio) +
			" A fan just sent you a direct message. Reply to it directly."),
		openai.UserMessage(incoming),
	}
	return p.complete(ctx, messages)
}

func (p *PersonaClient) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	start := time.Now()
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		logger.L.Error("chat completion failed", zap.Error(err))
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	logger.L.Info("chat completion",
		zap.String("model", p.model),
		zap.Duration("took", time.Since(start)))
	return reply, nil
}
