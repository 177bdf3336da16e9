package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/entity"
)

const DefaultMaxSteps = 10

// OpenAIAgent is a tool-calling loop over the chat completions API. It stops
// at the first answer that calls no tools.
type OpenAIAgent struct {
	client   openai.Client
	model    string
	system   string
	tools    *Toolbox
	maxSteps int
}

// NewOpenAIClient builds a client for the official API or any compatible endpoint.
func NewOpenAIClient(apiKey, baseURL string, extra ...option.RequestOption) openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return openai.NewClient(append(opts, extra...)...)
}

func NewOpenAIAgent(client openai.Client, model string, tools *Toolbox, maxSteps int) *OpenAIAgent {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &OpenAIAgent{
		client:   client,
		model:    model,
		system:   SystemPrompt,
		tools:    tools,
		maxSteps: maxSteps,
	}
}

func (a *OpenAIAgent) Run(ctx context.Context, prompt string) (string, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(a.system),
		openai.UserMessage(prompt),
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
	}
	if a.tools != nil {
		params.Tools = a.tools.Definitions()
	}

	for step := 1; step <= a.maxSteps; step++ {
		params.Messages = msgs
		resp, err := a.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion (step %d): %w", step, err)
		}
		if len(resp.Choices) == 0 {
			return "", entity.ErrAgentEmptyReply
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 || a.tools == nil {
			if strings.TrimSpace(msg.Content) == "" {
				return "", entity.ErrAgentEmptyReply
			}
			return msg.Content, nil
		}

		msgs = append(msgs, msg.ToParam())
		for _, call := range msg.ToolCalls {
			log.Debug().Str("component", "AGENT").Int("step", step).Str("tool", call.Function.Name).Msg("tool call")
			out := a.tools.Call(ctx, call.Function.Name, call.Function.Arguments)
			msgs = append(msgs, openai.ToolMessage(out, call.ID))
		}
	}
	return "", fmt.Errorf("%w (%d)", entity.ErrAgentMaxSteps, a.maxSteps)
}
