// Package aistudio records the streamed responses of Google's Gemini models,
// through the Gemini API or VertexAI.
package aistudio

import (
	"context"
	"net/http"

	"github.com/checkmarble/zepstream"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"google.golang.org/genai"
)

type AiStudio struct {
	client *genai.Client

	backend    genai.Backend
	apiKey     string
	project    string
	location   string
	httpClient *http.Client
}

func New(ctx context.Context, opts ...Opt) (*AiStudio, error) {
	p := AiStudio{
		backend: genai.BackendGeminiAPI,
	}

	for _, opt := range opts {
		opt(&p)
	}

	cfg := genai.ClientConfig{
		Backend:    p.backend,
		Project:    p.project,
		Location:   p.location,
		HTTPClient: p.httpClient,
	}

	if cfg.Backend == genai.BackendGeminiAPI {
		cfg.APIKey = p.apiKey
	}

	client, err := genai.NewClient(ctx, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize Google GenAI client")
	}

	p.client = client

	return &p, nil
}

// Extract returns the text carried by the first candidate of a response
// chunk.
func Extract(chunk *genai.GenerateContentResponse) (string, error) {
	if chunk == nil {
		return "", nil
	}

	return chunk.Text(), nil
}

// NewStream starts a streaming generation, and records the generated message
// on the thread once the stream is consumed or closed.
func (p *AiStudio) NewStream(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig, threadId string, store zepstream.Store, opts ...zepstream.Option) *zepstream.Stream[*genai.GenerateContentResponse] {
	source := zepstream.FromSeq2(p.client.Models.GenerateContentStream(ctx, model, contents, cfg))

	return zepstream.NewStream(ctx, source, threadId, store, Extract, opts...)
}

// NewAsyncStream is the channel-based variant of NewStream.
func (p *AiStudio) NewAsyncStream(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig, threadId string, store zepstream.Store, opts ...zepstream.Option) *zepstream.AsyncStream[*genai.GenerateContentResponse] {
	source := zepstream.FromSeq2(p.client.Models.GenerateContentStream(ctx, model, contents, cfg))

	return zepstream.NewAsyncStream(ctx, source, threadId, store, Extract, opts...)
}

// Contents converts recorded thread messages to Gemini contents. System
// messages are not part of the contents and are returned separately, to be
// used as the system instruction of the request.
func Contents(history []zepstream.Message) ([]*genai.Content, *genai.Content) {
	var system *genai.Content

	contents := lo.FilterMap(history, func(msg zepstream.Message, _ int) (*genai.Content, bool) {
		switch msg.Role {
		case zepstream.RoleUser:
			return genai.NewContentFromText(msg.Content, genai.RoleUser), true
		case zepstream.RoleAssistant:
			return genai.NewContentFromText(msg.Content, genai.RoleModel), true
		case zepstream.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}

			system.Parts = append(system.Parts, genai.NewPartFromText(msg.Content))

			return nil, false
		default:
			return nil, false
		}
	})

	return contents, system
}
