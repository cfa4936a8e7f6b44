package openai

import "net/http"

type Opt func(*OpenAi)

// WithBaseUrl sets the URL at which the OpenAI-compatible API is available.
//
// If not specified, will use OpenAI's API.
func WithBaseUrl(url string) Opt {
	return func(p *OpenAi) {
		p.baseUrl = url
	}
}

func WithApiKey(apiKey string) Opt {
	return func(p *OpenAi) {
		p.apiKey = apiKey
	}
}

// WithHttpClient sets the HTTP client used to reach the API.
func WithHttpClient(client *http.Client) Opt {
	return func(p *OpenAi) {
		p.httpClient = client
	}
}
