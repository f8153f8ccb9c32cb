// Package ragchat implements a thin client for an Azure OpenAI chat
// deployment augmented with an Azure AI Search data source ("On Your Data").
// The client owns the conversation history and issues round trips strictly
// sequentially; citation extraction and configuration live in their own
// packages.
package ragchat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"ragchat/pkg/citation"
	"ragchat/pkg/config"
	"ragchat/pkg/logger"
)

// APIVersion is the Azure OpenAI API version the client speaks.
const APIVersion = "2024-08-01-preview"

// systemPrompt grounds the assistant in the indexed document set.
const systemPrompt = "You are a helpful Northwind Health insurance assistant. " +
	"Answer questions about health plans, coverage, benefits, and policies " +
	"based on the provided documents. Be accurate, helpful, and cite your sources."

// Answer is the result of one question round trip.
type Answer struct {
	Content   string
	Citations []citation.Citation
}

// Client talks to one chat deployment. It is the only writer appending to
// the conversation history and must not be used from multiple goroutines.
type Client struct {
	api     openai.Client
	cfg     config.Config
	logger  logger.Logger
	verbose bool
	history []openai.ChatCompletionMessageParamUnion
	sources []DataSource
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger routes diagnostics to l.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithVerbose enables verbose request logging.
func WithVerbose(verbose bool) Option {
	return func(c *Client) {
		c.verbose = verbose
	}
}

// New builds a Client for the given resolved configuration. Credential
// options (an Azure token credential or an API key) are supplied by the
// caller through clientOpts so the library stays agnostic of the
// authentication mode.
func New(cfg config.Config, clientOpts []option.RequestOption, opts ...Option) (*Client, error) {
	if cfg.ChatEndpoint == "" {
		return nil, errors.New("chat endpoint is not set")
	}
	if cfg.ChatDeployment == "" {
		return nil, errors.New("chat deployment is not set")
	}

	reqOpts := append([]option.RequestOption{azure.WithEndpoint(cfg.ChatEndpoint, APIVersion)}, clientOpts...)

	c := &Client{
		api:     openai.NewClient(reqOpts...),
		cfg:     cfg,
		logger:  logger.Nop{},
		history: []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)},
		sources: BuildDataSources(cfg),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.debugf("client init: endpoint=%s deployment=%s data_sources=%d", cfg.ChatEndpoint, cfg.ChatDeployment, len(c.sources))
	return c, nil
}

// Ask sends one question through the conversation and returns the answer
// with any citations the service reported. The question joins the history
// before the round trip and is rolled back if the trip fails; the assistant
// answer is appended only after success, keeping the history consistent.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, errors.New("question is empty")
	}

	c.history = append(c.history, openai.UserMessage(question))
	c.debugf("chat: sending request messages=%d data_sources=%d", len(c.history), len(c.sources))

	var reqOpts []option.RequestOption
	if len(c.sources) > 0 {
		reqOpts = append(reqOpts, option.WithJSONSet("data_sources", c.sources))
	}

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.cfg.ChatDeployment),
		Messages: c.history,
	}, reqOpts...)
	if err != nil {
		c.history = c.history[:len(c.history)-1]
		return Answer{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		c.history = c.history[:len(c.history)-1]
		return Answer{}, errors.New("empty completion choices")
	}

	content := completion.Choices[0].Message.Content
	citations := citation.Parse(completion.RawJSON())
	c.debugf("chat: received answer bytes=%d citations=%d", len(content), len(citations))
	for i, cit := range citations {
		c.debugf("chat: citation %d: %s", i+1, cit.DisplayTitle())
	}

	c.history = append(c.history, openai.AssistantMessage(content))
	return Answer{Content: content, Citations: citations}, nil
}

// Ping sends a minimal request without data sources to confirm the chat
// deployment is reachable before the first query.
func (c *Client) Ping(ctx context.Context) (string, error) {
	c.debugf("chat: sending connection test")
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.ChatDeployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Say hello in one word"),
		},
	})
	if err != nil {
		return "", fmt.Errorf("connection test: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty completion choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) debugf(format string, args ...any) {
	if !c.verbose || c.logger == nil {
		return
	}
	c.logger.Debugf("[verbose] "+format, args...)
}
