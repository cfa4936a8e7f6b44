// Package zep records streamed messages on threads of a Zep memory server.
package zep

import (
	"context"
	"net/http"

	"github.com/checkmarble/zepstream"
	"github.com/cockroachdb/errors"
	zepgo "github.com/getzep/zep-go/v3"
	zepclient "github.com/getzep/zep-go/v3/client"
	"github.com/getzep/zep-go/v3/option"
)

var _ zepstream.Store = (*Zep)(nil)

type Zep struct {
	client *zepclient.Client

	apiKey     string
	baseUrl    string
	httpClient *http.Client
}

func New(opts ...Opt) (*Zep, error) {
	z := Zep{}

	for _, opt := range opts {
		opt(&z)
	}

	if z.apiKey == "" {
		return nil, errors.New("a Zep API key is required")
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(z.apiKey)}

	if z.baseUrl != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(z.baseUrl))
	}
	if z.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(z.httpClient))
	}

	z.client = zepclient.NewClient(clientOpts...)

	return &z, nil
}

func (z *Zep) Client() *zepclient.Client {
	return z.client
}

func (z *Zep) AppendMessage(ctx context.Context, threadId string, role zepstream.Role, content string) error {
	req := zepgo.AddThreadMessagesRequest{
		Messages: []*zepgo.Message{
			{
				Role:    zepgo.RoleType(role),
				Content: content,
			},
		},
	}

	if _, err := z.client.Thread.AddMessages(ctx, threadId, &req); err != nil {
		return errors.Wrap(err, "could not add message to Zep thread")
	}

	return nil
}
