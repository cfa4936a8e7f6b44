// Package openai records the streamed responses of OpenAI-compatible chat
// completion APIs.
package openai

import (
	"context"
	"net/http"

	"github.com/checkmarble/zepstream"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"
)

type OpenAi struct {
	client openai.Client

	baseUrl    string
	apiKey     string
	httpClient *http.Client
}

func New(opts ...Opt) *OpenAi {
	p := OpenAi{}

	for _, opt := range opts {
		opt(&p)
	}

	clientOpts := []option.RequestOption{}

	if p.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(p.apiKey))
	}
	if p.baseUrl != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(p.baseUrl))
	}
	if p.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(p.httpClient))
	}

	p.client = openai.NewClient(clientOpts...)

	return &p
}

// Client returns the underlying OpenAI client.
func (p *OpenAi) Client() *openai.Client {
	return &p.client
}

// Extract returns the text carried by the first choice of a chunk.
func Extract(chunk openai.ChatCompletionChunk) (string, error) {
	if len(chunk.Choices) == 0 {
		return "", nil
	}

	return chunk.Choices[0].Delta.Content, nil
}

// NewStream starts a streaming chat completion, and records the generated
// message on the thread once the stream is consumed or closed.
func (p *OpenAi) NewStream(ctx context.Context, params openai.ChatCompletionNewParams, threadId string, store zepstream.Store, opts ...zepstream.Option) *zepstream.Stream[openai.ChatCompletionChunk] {
	source := p.client.Chat.Completions.NewStreaming(ctx, params)

	return zepstream.NewStream[openai.ChatCompletionChunk](ctx, source, threadId, store, Extract, opts...)
}

// NewAsyncStream is the channel-based variant of NewStream.
func (p *OpenAi) NewAsyncStream(ctx context.Context, params openai.ChatCompletionNewParams, threadId string, store zepstream.Store, opts ...zepstream.Option) *zepstream.AsyncStream[openai.ChatCompletionChunk] {
	source := p.client.Chat.Completions.NewStreaming(ctx, params)

	return zepstream.NewAsyncStream[openai.ChatCompletionChunk](ctx, source, threadId, store, Extract, opts...)
}

// Messages converts recorded thread messages to chat completion messages, to
// be sent as context with the next request. Tool messages cannot be replayed
// without their tool call and are left out.
func Messages(history []zepstream.Message) []openai.ChatCompletionMessageParamUnion {
	return lo.FilterMap(history, func(msg zepstream.Message, _ int) (openai.ChatCompletionMessageParamUnion, bool) {
		switch msg.Role {
		case zepstream.RoleUser:
			return openai.UserMessage(msg.Content), true
		case zepstream.RoleAssistant:
			return openai.AssistantMessage(msg.Content), true
		case zepstream.RoleSystem:
			return openai.SystemMessage(msg.Content), true
		default:
			return openai.ChatCompletionMessageParamUnion{}, false
		}
	})
}
