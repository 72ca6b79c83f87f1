package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"poemas-backend/config"
)

const (
	// SystemPrompt is the same for every request; only the topic varies.
	SystemPrompt = "Eres un poeta que escribe poemas románticos con emojis."

	MaxTokens   = 400
	Temperature = 0.9
)

var ErrEmptyCompletion = errors.New("openai: respuesta sin contenido")

type Client struct {
	api    *openai.Client
	stream *openai.Client
	Model  string
}

// NewClient builds the blocking and the streaming API clients. httpClient
// carries the overall per-call timeout; streamClient must not have one, since
// it would also cut the body of a long stream. A nil streamClient reuses
// httpClient.
func NewClient(cfg *config.Config, httpClient, streamClient *http.Client) *Client {
	if streamClient == nil {
		streamClient = httpClient
	}
	return &Client{
		api:    newAPI(cfg, httpClient),
		stream: newAPI(cfg, streamClient),
		Model:  cfg.OpenAI.Model,
	}
}

func newAPI(cfg *config.Config, httpClient *http.Client) *openai.Client {
	oc := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.OpenAI.BaseURL, "/")
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(oc)
}

// UserPrompt interpolates the topic verbatim, without any filtering.
func UserPrompt(topic string) string {
	return "Genera un poema " + topic
}

func (c *Client) poemRequest(topic string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(topic)},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// GeneratePoem returns the trimmed text of the first choice.
func (c *Client) GeneratePoem(ctx context.Context, topic string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, c.poemRequest(topic))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// StreamPoem sends the same request as GeneratePoem but yields the content
// deltas as they arrive. The delta channel closes when the stream ends, fails
// or ctx is cancelled. A stream that did not reach its normal end leaves
// exactly one error on errs before errs is closed, so the caller can tell a
// cut poem from a finished one.
func (c *Client) StreamPoem(ctx context.Context, topic string) (<-chan string, <-chan error, error) {
	stream, err := c.stream.CreateChatCompletionStream(ctx, c.poemRequest(topic))
	if err != nil {
		return nil, nil, fmt.Errorf("openai stream: %w", err)
	}

	ch := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer stream.Close()
		defer close(errs)
		defer close(ch)
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				log.Printf("[CHAT][stream] corte del stream: %v", err)
				errs <- fmt.Errorf("openai stream: %w", err)
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case ch <- resp.Choices[0].Delta.Content:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return ch, errs, nil
}
