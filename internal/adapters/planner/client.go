package planner

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gen1xLol/AIsemble/internal/domain"
)

const (
	defaultEndpoint = "https://api.penguinai.tech/v1/chat/completions"
	defaultModel    = "claude-3.5-sonnet"
)

type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		model:    defaultModel,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 120 * time.Second}, // el modelo tarda
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var ErrNoCompletion = errors.New("sin completions en la respuesta")

// Complete manda los mensajes al endpoint chat-completion y devuelve el texto
// de la primera choice.
func (c *Client) Complete(ctx context.Context, msgs []domain.ChatMessage) (string, error) {
	req := completionRequest{Model: c.model, Messages: msgs}

	var dto completionResponse
	if err := c.doJSON(ctx, req, &dto); err != nil {
		return "", err
	}
	if len(dto.Choices) == 0 || dto.Choices[0].Message.Content == "" {
		return "", ErrNoCompletion
	}
	return dto.Choices[0].Message.Content, nil
}
