package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"github.com/granjadata/avicola_backend/actions"
)

const defaultModel = "gpt-4o-mini"

// Message is one turn of the conversation forwarded by the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall is the function invocation the model chose, raw arguments and all.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// Reply is the model's answer. Content carries any assistant text; ToolCall is
// set when the model chose a function, and the text then serves as its
// accompanying thought.
type Reply struct {
	Content  string
	ToolCall *ToolCall
}

// Client wraps the OpenAI SDK for single-shot, non-streaming proposals.
type Client struct {
	client *openai.Client
	model  string
}

// NewClientFromEnv builds the client from OPENAI_API_KEY and OPENAI_MODEL.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{client: &client, model: model}, nil
}

// Propose sends the conversation plus the action catalog to the model and
// returns its first answer. When the model calls a tool, the raw arguments
// pass through untouched for the action layer to validate.
func (c *Client) Propose(ctx context.Context, system string, messages []Message, tools []actions.ToolSpec) (*Reply, error) {
	items := make([]responses.ResponseInputItemUnionParam, 0, len(messages)+1)
	if system != "" {
		items = append(items, responses.ResponseInputItemParamOfMessage(
			system,
			responses.EasyInputMessageRoleSystem,
		))
	}
	for _, m := range messages {
		role := responses.EasyInputMessageRoleUser
		if m.Role == "assistant" {
			role = responses.EasyInputMessageRoleAssistant
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, role))
	}

	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}
	if len(tools) > 0 {
		converted := make([]responses.ToolUnionParam, 0, len(tools))
		for _, t := range tools {
			converted = append(converted, responses.ToolUnionParam{
				OfFunction: &responses.FunctionToolParam{
					Name:        t.Name,
					Description: openai.String(t.Description),
					Parameters:  t.Parameters,
				},
			})
		}
		params.Tools = converted
	}

	// Low temperature keeps argument extraction deterministic.
	opts := []option.RequestOption{option.WithJSONSet("temperature", 0.2)}

	resp, err := c.client.Responses.New(ctx, params, opts...)
	if err != nil {
		return nil, err
	}

	for _, item := range resp.Output {
		if item.Type == "function_call" {
			return &Reply{
				Content: resp.OutputText(),
				ToolCall: &ToolCall{
					Name:      item.Name,
					Arguments: json.RawMessage(item.Arguments),
				},
			}, nil
		}
	}
	return &Reply{Content: resp.OutputText()}, nil
}
