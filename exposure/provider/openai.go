// Package provider adapts an OpenRouter-compatible chat-completions endpoint
// to the exposure.Completer interface, with a strict JSON schema for the
// {text, emotion, plan} reply shape.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/kokorolab/exposure-chat/exposure"
)

const (
	// DefaultBaseURL targets OpenRouter, which speaks the OpenAI
	// chat-completions wire format.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4o-mini"
)

// Options configures the remote call. APIKey and Model are required.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client performs one blocking completion call per turn. Nothing is retried:
// a failed call is surfaced to the caller and the participant resends.
type Client struct {
	client *openai.Client
	model  string
}

func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("provider.New: missing API key")
	}
	if opts.Model == "" {
		return nil, errors.New("provider.New: missing model")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := openai.NewClient(
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(baseURL),
	)
	return &Client{client: &c, model: opts.Model}, nil
}

// replyShape mirrors exposure.Reply for schema generation. Plan is made
// nullable in a post-processing step since the model must send plan: null on
// non-authoring turns.
type replyShape struct {
	Text    string         `json:"text"`
	Emotion string         `json:"emotion" jsonschema:"enum=positive,enum=negative,enum=neutral,enum=anxious,enum=sad,enum=angry"`
	Plan    *exposure.Plan `json:"plan"`
}

var replySchema = func() map[string]interface{} {
	s := generateSchema[replyShape]()
	allowNullProperty(s, "plan")
	return s
}()

// Complete implements exposure.Completer.
func (c *Client) Complete(ctx context.Context, messages []exposure.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("provider.Complete: no messages")
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case exposure.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case exposure.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		case exposure.RoleUser:
			msgs = append(msgs, openai.UserMessage(m.Content))
		default:
			return "", fmt.Errorf("provider.Complete: unknown message role %q", m.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: msgs,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "AgentReply",
					Description: openai.String("Structured agent reply"),
					Schema:      replySchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("provider.Complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("provider.Complete: response contains no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
