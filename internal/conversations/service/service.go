package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/launchmentor/launchmentor-backend/internal/conversations/domain"
	"github.com/launchmentor/launchmentor-backend/internal/conversations/repository"
	"github.com/launchmentor/launchmentor-backend/internal/mentors"
	"github.com/launchmentor/launchmentor-backend/internal/projects"
	"github.com/launchmentor/launchmentor-backend/internal/realtime"
	"github.com/launchmentor/launchmentor-backend/internal/relay"
)

// Store is the persistence edge of the synchronizer; *repository.Repo is
// the production implementation.
type Store interface {
	Ensure(ctx context.Context, userID, projectID, mentorID, title string) (*domain.Conversation, error)
	Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error)
	History(ctx context.Context, userID, conversationID string) ([]domain.Message, error)
	InsertMessage(ctx context.Context, userID, conversationID, role, content string) (*domain.Message, error)
}

// ProjectStore supplies the project profile forwarded as relay context.
type ProjectStore interface {
	Get(ctx context.Context, userID, projectID string) (*projects.Project, error)
}

// TurnRelay produces the assistant reply for one turn.
type TurnRelay interface {
	HandleTurn(ctx context.Context, req relay.TurnRequest) (string, error)
}

// Publisher broadcasts inserted rows to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, msg domain.Message) error
}

var _ Store = (*repository.Repo)(nil)
var _ Publisher = (*realtime.Bus)(nil)

// Service drives the turn-taking protocol for mentor conversations: it
// ensures the (project, mentor) thread exists, loads history, and runs the
// persist-user / relay / persist-assistant sequence in strict order.
type Service struct {
	repo        Store
	projectRepo ProjectStore
	relay       TurnRelay
	bus         Publisher

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(repo Store, projectRepo ProjectStore, relaySvc TurnRelay, bus Publisher) *Service {
	return &Service{
		repo:        repo,
		projectRepo: projectRepo,
		relay:       relaySvc,
		bus:         bus,
		inFlight:    make(map[string]bool),
	}
}

// Ensure returns the conversation for (project, mentor), creating it with a
// default title derived from the mentor's display name when absent. Unknown
// mentor ids are rejected here; the relay's strategist fallback applies to
// prompts, not to thread creation.
func (s *Service) Ensure(ctx context.Context, userID, projectID, mentorID string) (*domain.Conversation, error) {
	if !mentors.IsKnown(mentorID) {
		return nil, fmt.Errorf("unknown mentor %q", mentorID)
	}
	title := mentors.DisplayNameFor(mentorID) + " Chat"
	return s.repo.Ensure(ctx, userID, projectID, mentorID, title)
}

// History returns the ordered transcript.
func (s *Service) History(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	return s.repo.History(ctx, userID, conversationID)
}

// Get resolves one conversation with its ownership check.
func (s *Service) Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	return s.repo.Get(ctx, userID, conversationID)
}

// SendResult carries both persisted sides of a completed turn.
type SendResult struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
}

// Send runs one turn. Only one send may be in flight per conversation; a
// submission arriving while one runs gets ErrSendInFlight and is dropped.
//
// Ordering is strict: the user row is persisted before the relay call, and
// the assistant row only after a successful reply. A failure after step one
// leaves the user message in place so the input is not lost.
func (s *Service) Send(ctx context.Context, userID, conversationID, text string) (*SendResult, error) {
	if !s.acquire(conversationID) {
		return nil, domain.ErrSendInFlight
	}
	defer s.release(conversationID)

	conv, err := s.repo.Get(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.repo.InsertMessage(ctx, userID, conversationID, domain.RoleUser, text)
	if err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	s.publish(ctx, *userMsg)

	reply, err := s.relay.HandleTurn(ctx, relay.TurnRequest{
		ConversationID: conversationID,
		MentorID:       conv.MentorID,
		Message:        text,
		ProjectContext: s.projectContext(ctx, userID, conv.ProjectID),
	})
	if err != nil {
		return nil, err
	}

	assistantMsg, err := s.repo.InsertMessage(ctx, userID, conversationID, domain.RoleAssistant, reply)
	if err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}
	s.publish(ctx, *assistantMsg)

	return &SendResult{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// projectContext loads the conversation's project profile for the relay.
// A load failure degrades to a context-free turn rather than failing the send.
func (s *Service) projectContext(ctx context.Context, userID, projectID string) *relay.ProjectContext {
	p, err := s.projectRepo.Get(ctx, userID, projectID)
	if err != nil {
		log.Printf("[warn] operation=project_context project_id=%s error=%v", projectID, err)
		return nil
	}
	return &relay.ProjectContext{
		Idea:     p.Idea,
		Stage:    p.Stage,
		Industry: p.Industry,
	}
}

// publish is best-effort: the turn already succeeded, a missed event only
// costs subscribers a live update they will see on the next history load.
func (s *Service) publish(ctx context.Context, msg domain.Message) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, msg); err != nil {
		log.Printf("[warn] operation=publish_message conversation_id=%s error=%v", msg.ConversationID, err)
	}
}

func (s *Service) acquire(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[conversationID] {
		return false
	}
	s.inFlight[conversationID] = true
	return true
}

func (s *Service) release(conversationID string) {
	s.mu.Lock()
	delete(s.inFlight, conversationID)
	s.mu.Unlock()
}
