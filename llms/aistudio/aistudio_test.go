package aistudio_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/checkmarble/zepstream"
	"github.com/checkmarble/zepstream/llms/aistudio"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

func sseBody(texts ...string) string {
	var body strings.Builder

	for _, text := range texts {
		fmt.Fprintf(&body, `data: {"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}],"modelVersion":"themodel"}`+"\n\n", text)
	}

	return body.String()
}

func TestGoogleAiStream(t *testing.T) {
	defer gock.Off()

	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)

	gock.New("https://generativelanguage.googleapis.com").
		Post("/v1beta/models/themodel:streamGenerateContent").
		MatchHeader("x-goog-api-key", "apikey").
		AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
			body, _ := io.ReadAll(req.Body)

			assert.EqualValues(t, 2, gjson.GetBytes(body, "contents.#").Int())
			assert.Equal(t, "user", gjson.GetBytes(body, "contents.0.role").String())
			assert.Equal(t, "Say hello", gjson.GetBytes(body, "contents.0.parts.0.text").String())
			assert.Equal(t, "model", gjson.GetBytes(body, "contents.1.role").String())
			assert.Equal(t, "Be nice", gjson.GetBytes(body, "systemInstruction.parts.0.text").String())

			return true, nil
		}).
		Reply(http.StatusOK).
		SetHeader("content-type", "text/event-stream").
		BodyString(sseBody("Hello", " there", "!"))

	provider, err := aistudio.New(t.Context(), aistudio.WithApiKey("apikey"), aistudio.WithHttpClient(httpClient))

	assert.Nil(t, err)

	contents, system := aistudio.Contents([]zepstream.Message{
		{Role: zepstream.RoleSystem, Content: "Be nice"},
		{Role: zepstream.RoleUser, Content: "Say hello"},
		{Role: zepstream.RoleAssistant, Content: "Hi."},
	})

	var committed []string

	store := zepstream.StoreFunc(func(_ context.Context, threadId string, role zepstream.Role, content string) error {
		committed = append(committed, content)

		return nil
	})

	stream := provider.NewStream(t.Context(), "themodel", contents, &genai.GenerateContentConfig{SystemInstruction: system}, "t1", store,
		zepstream.WithCache(zepstream.NewCache()))

	chunks, err := zepstream.Collect(stream)

	assert.Nil(t, err)
	assert.False(t, gock.HasUnmatchedRequest())
	assert.Len(t, chunks, 3)
	assert.Equal(t, []string{"Hello there!"}, committed)
}

func TestExtract(t *testing.T) {
	text, err := aistudio.Extract(nil)

	assert.Nil(t, err)
	assert.Equal(t, "", text)

	text, err = aistudio.Extract(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText("Hello", genai.RoleModel)},
		},
	})

	assert.Nil(t, err)
	assert.Equal(t, "Hello", text)
}

func TestContents(t *testing.T) {
	contents, system := aistudio.Contents([]zepstream.Message{
		{Role: zepstream.RoleUser, Content: "Hello"},
		{Role: zepstream.RoleTool, Content: "dropped"},
		{Role: zepstream.RoleAssistant, Content: "Hi"},
	})

	assert.Nil(t, system)
	assert.Len(t, contents, 2)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	assert.Equal(t, "Hi", contents[1].Parts[0].Text)
}
