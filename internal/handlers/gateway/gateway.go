// Package gateway validates inbound inference requests and shapes prompts
// per endpoint before handing them to the backend client.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"oceangpt-api/internal/backend"
	"oceangpt-api/internal/shared"

	"go.uber.org/zap"
)

// Inferer is the outbound side of the gateway. *backend.Client satisfies
// it; tests substitute stubs.
type Inferer interface {
	Infer(ctx context.Context, endpoint string, payload shared.BackendPayload) backend.Result
}

type Handler struct {
	client       Inferer
	chatTemplate string
	log          *zap.SugaredLogger
}

func NewHandler(client Inferer, chatTemplate string, log *zap.SugaredLogger) *Handler {
	if chatTemplate == "" {
		chatTemplate = shared.DefaultChatTemplate
	}
	return &Handler{
		client:       client,
		chatTemplate: chatTemplate,
		log:          log,
	}
}

// Preprocess decodes and validates an inbound body and fills defaults.
// Any failure here is a *shared.RequestError and is returned before an
// outbound call is ever made.
func (h *Handler) Preprocess(body []byte) (*shared.BackendPayload, error) {
	var req shared.InferenceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.Join(shared.ErrInvalidRequest, err)
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, shared.ErrEmptyPrompt
	}

	maxTokens := shared.DefaultMaxTokens
	if req.MaxTokens != nil {
		if *req.MaxTokens <= 0 {
			return nil, shared.ErrBadMaxTokens
		}
		maxTokens = *req.MaxTokens
	}

	temperature := shared.DefaultTemperature
	if req.Temperature != nil {
		if *req.Temperature < shared.MinTemperature || *req.Temperature > shared.MaxTemperature {
			return nil, shared.ErrBadTemperature
		}
		temperature = *req.Temperature
	}

	return &shared.BackendPayload{
		Prompt:      req.Prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, nil
}

// Query forwards the prompt unchanged (single-shot semantics).
func (h *Handler) Query(ctx context.Context, payload shared.BackendPayload) backend.Result {
	return h.client.Infer(ctx, shared.EndpointQuery, payload)
}

// Chat wraps the prompt in the conversational template before forwarding.
// Single turn only; no history is carried between calls.
func (h *Handler) Chat(ctx context.Context, payload shared.BackendPayload) backend.Result {
	formatted := fmt.Sprintf(h.chatTemplate, payload.Prompt)
	payload.Prompt = formatted

	res := h.client.Infer(ctx, shared.EndpointChat, payload)
	if res.Kind == backend.KindSuccess && strings.Contains(res.Text, formatted) {
		// Completion-style backends echo the templated prompt inside the
		// generated text; strip it so callers only see the answer.
		res.Text = strings.TrimSpace(strings.ReplaceAll(res.Text, formatted, ""))
		h.log.Debugw("Stripped echoed prompt from chat response", "response_len", len(res.Text))
	}
	return res
}
