package relay

import (
	"context"
	"fmt"
	"strings"

	"github.com/launchmentor/launchmentor-backend/internal/mentors"
)

// CompletionClient is the outbound edge of the relay. *GatewayClient is the
// production implementation.
type CompletionClient interface {
	Complete(ctx context.Context, model, systemPrompt, userContent string) (string, error)
}

// ProjectContext is the optional startup profile forwarded with a turn.
// Absent fields render as "Not specified" in the composed prompt.
type ProjectContext struct {
	Idea     string `json:"idea,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// TurnRequest is one user message addressed to a mentor. ConversationID is
// informational only: the relay is stateless per call and forwards no prior
// turns, so the provider sees exactly one system and one user entry.
type TurnRequest struct {
	ConversationID string          `json:"conversationId"`
	MentorID       string          `json:"mentorId"`
	Message        string          `json:"message"`
	ProjectContext *ProjectContext `json:"projectContext,omitempty"`
}

// Service turns a user message + mentor id + optional project context into
// a generated reply. It holds no state between invocations.
type Service struct {
	gateway CompletionClient
	model   string
	hasKey  bool
}

func NewService(gateway CompletionClient, model string, hasKey bool) *Service {
	return &Service{
		gateway: gateway,
		model:   model,
		hasKey:  hasKey,
	}
}

// HandleTurn validates the request, composes the prompt, and makes exactly
// one gateway call. Validation and configuration failures never reach the
// network.
func (s *Service) HandleTurn(ctx context.Context, req TurnRequest) (string, error) {
	if strings.TrimSpace(req.MentorID) == "" || strings.TrimSpace(req.Message) == "" {
		return "", ErrMissingFields
	}
	if !s.hasKey {
		return "", ErrAPIKeyMissing
	}

	systemPrompt := mentors.PromptFor(req.MentorID)
	userContent := composeUserContent(req.ProjectContext, req.Message)

	reply, err := s.gateway.Complete(ctx, s.model, systemPrompt, userContent)
	if err != nil {
		return "", fmt.Errorf("mentor chat: %w", err)
	}
	return reply, nil
}

// composeUserContent prepends the project context block when present. With
// no context the message is forwarded untouched.
func composeUserContent(pc *ProjectContext, message string) string {
	if pc == nil {
		return message
	}
	block := fmt.Sprintf(`
Project Context:
- Idea: %s
- Stage: %s
- Industry: %s

User question:`,
		orNotSpecified(pc.Idea),
		orNotSpecified(pc.Stage),
		orNotSpecified(pc.Industry),
	)
	return block + "\n" + message
}

func orNotSpecified(v string) string {
	if v == "" {
		return "Not specified"
	}
	return v
}
