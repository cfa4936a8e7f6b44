package zep

import "net/http"

type Opt func(*Zep)

func WithApiKey(apiKey string) Opt {
	return func(z *Zep) {
		z.apiKey = apiKey
	}
}

func WithBaseUrl(baseUrl string) Opt {
	return func(z *Zep) {
		z.baseUrl = baseUrl
	}
}

func WithHttpClient(client *http.Client) Opt {
	return func(z *Zep) {
		z.httpClient = client
	}
}
