package client

import (
	"context"
	"net/http"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/runner"
	"github.com/calebmweir/parley/stream"
)

const (
	messagesPath    = "/v1/messages"
	countTokensPath = "/v1/messages/count_tokens"
)

// MessagesService creates model turns.
type MessagesService struct {
	client *Client
}

// messageRequest is the wire shape of a message-creation request.
type messageRequest struct {
	Model         string       `json:"model"`
	MaxTokens     int          `json:"max_tokens"`
	Messages      []ai.Message `json:"messages"`
	System        string       `json:"system,omitempty"`
	Temperature   *float64     `json:"temperature,omitempty"`
	StopSequences []string     `json:"stop_sequences,omitempty"`
	Tools         []ai.Tool    `json:"tools,omitempty"`
	ToolChoice    *toolChoice  `json:"tool_choice,omitempty"`
	Stream        bool         `json:"stream,omitempty"`
}

type toolChoice struct {
	Type string `json:"type"`
}

func buildMessageRequest(messages []ai.Message, options *ai.Options, streaming bool) (*messageRequest, error) {
	if options.Model == "" {
		return nil, ai.NewUserInputError("client: model is required", 0, nil)
	}
	if len(messages) == 0 {
		return nil, ai.NewUserInputError("client: at least one message is required", 0, nil)
	}

	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	req := &messageRequest{
		Model:         options.Model,
		MaxTokens:     maxTokens,
		Messages:      messages,
		System:        options.System,
		Temperature:   options.Temperature,
		StopSequences: options.StopSequences,
		Tools:         options.Tools,
		Stream:        streaming,
	}
	if options.ToolChoice != "" && options.ToolChoice != ai.ToolChoiceAuto && len(options.Tools) > 0 {
		req.ToolChoice = &toolChoice{Type: string(options.ToolChoice)}
	}
	return req, nil
}

// Create issues one blocking model call and returns the complete response.
func (s *MessagesService) Create(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	req, err := buildMessageRequest(messages, ai.ApplyOptions(opts...), false)
	if err != nil {
		return nil, err
	}

	var resp ai.Response
	if err := s.client.doJSON(ctx, http.MethodPost, messagesPath, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stream opens one streamed model call and returns a decoder over its
// event stream. The caller should drain it or call Close to release the
// connection.
func (s *MessagesService) Stream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*stream.Decoder, error) {
	req, err := buildMessageRequest(messages, ai.ApplyOptions(opts...), true)
	if err != nil {
		return nil, err
	}

	body, err := s.client.doStream(ctx, http.MethodPost, messagesPath, req)
	if err != nil {
		return nil, err
	}
	return stream.NewDecoder(body), nil
}

// countTokensResponse is the wire shape of a count-tokens reply.
type countTokensResponse struct {
	InputTokens int `json:"input_tokens"`
}

// CountTokens reports the input-token count the given request would
// consume, without creating a message.
func (s *MessagesService) CountTokens(ctx context.Context, messages []ai.Message, opts ...ai.Option) (int, error) {
	options := ai.ApplyOptions(opts...)
	if options.Model == "" {
		return 0, ai.NewUserInputError("client: model is required", 0, nil)
	}

	req := struct {
		Model    string       `json:"model"`
		Messages []ai.Message `json:"messages"`
		System   string       `json:"system,omitempty"`
		Tools    []ai.Tool    `json:"tools,omitempty"`
	}{
		Model:    options.Model,
		Messages: messages,
		System:   options.System,
		Tools:    options.Tools,
	}

	var resp countTokensResponse
	if err := s.client.doJSON(ctx, http.MethodPost, countTokensPath, nil, req, &resp); err != nil {
		return 0, err
	}
	return resp.InputTokens, nil
}

// CreateMessage implements runner.ModelCaller.
func (c *Client) CreateMessage(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return c.Messages.Create(ctx, messages, opts...)
}

// StreamMessage implements runner.ModelCaller.
func (c *Client) StreamMessage(ctx context.Context, messages []ai.Message, opts ...ai.Option) (stream.EventSource, error) {
	return c.Messages.Stream(ctx, messages, opts...)
}

// CountTokens implements runner.TokenCounter.
func (c *Client) CountTokens(ctx context.Context, messages []ai.Message, opts ...ai.Option) (int, error) {
	return c.Messages.CountTokens(ctx, messages, opts...)
}

var (
	_ runner.ModelCaller  = (*Client)(nil)
	_ runner.TokenCounter = (*Client)(nil)
)
