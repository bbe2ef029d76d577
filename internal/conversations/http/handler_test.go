package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchmentor/launchmentor-backend/internal/conversations/domain"
	"github.com/launchmentor/launchmentor-backend/internal/conversations/service"
	"github.com/launchmentor/launchmentor-backend/internal/projects"
	"github.com/launchmentor/launchmentor-backend/internal/realtime"
	"github.com/launchmentor/launchmentor-backend/internal/relay"
)

type stubStore struct {
	conv    *domain.Conversation
	history []domain.Message
	err     error
	nextID  int
}

func (s *stubStore) Ensure(ctx context.Context, userID, projectID, mentorID, title string) (*domain.Conversation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Conversation{ID: "conv-1", ProjectID: projectID, MentorID: mentorID, Title: title}, nil
}

func (s *stubStore) Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.conv, nil
}

func (s *stubStore) History(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func (s *stubStore) InsertMessage(ctx context.Context, userID, conversationID, role, content string) (*domain.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	return &domain.Message{
		ID:             fmt.Sprintf("msg-%d", s.nextID),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}, nil
}

type stubProjects struct{}

func (stubProjects) Get(ctx context.Context, userID, projectID string) (*projects.Project, error) {
	return &projects.Project{ID: projectID, Idea: "idea", Stage: "mvp", Industry: "saas"}, nil
}

type stubRelay struct {
	reply string
	err   error
}

func (s stubRelay) HandleTurn(ctx context.Context, req relay.TurnRequest) (string, error) {
	return s.reply, s.err
}

type testEnv struct {
	router *gin.Engine
	store  *stubStore
	relay  *stubRelay
	bus    *realtime.Bus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	bus := realtime.NewBus(client)

	store := &stubStore{
		conv: &domain.Conversation{ID: "conv-1", ProjectID: "proj-1", MentorID: "tech", Title: "MVP Tech Mentor Chat"},
	}
	rl := &stubRelay{reply: "start with a landing page"}
	svc := service.New(store, stubProjects{}, rl, bus)

	r := gin.New()
	Register(r.Group("/api/v1/conversations"), svc, bus)
	return &testEnv{router: r, store: store, relay: rl, bus: bus}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnsure_CreatesConversation(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/v1/conversations", `{"project_id":"proj-1","mentor_id":"tech"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		OK           bool                `json:"ok"`
		Conversation domain.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "tech", resp.Conversation.MentorID)
	assert.Equal(t, "MVP Tech Mentor Chat", resp.Conversation.Title)
}

func TestEnsure_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	for name, body := range map[string]string{
		"missing project": `{"mentor_id":"tech"}`,
		"missing mentor":  `{"project_id":"proj-1"}`,
		"unknown mentor":  `{"project_id":"proj-1","mentor_id":"ceo"}`,
		"malformed":       `{`,
	} {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, env.router, http.MethodPost, "/api/v1/conversations", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEnsure_ProjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.store.err = domain.ErrNotFound

	w := doJSON(t, env.router, http.MethodPost, "/api/v1/conversations", `{"project_id":"missing","mentor_id":"tech"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	env.store.history = []domain.Message{
		{ID: "msg-1", ConversationID: "conv-1", Role: domain.RoleUser, Content: "hi"},
		{ID: "msg-2", ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "hello"},
	}

	w := doJSON(t, env.router, http.MethodGet, "/api/v1/conversations/conv-1/messages", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "msg-1", resp.Messages[0].ID)
	assert.Equal(t, "msg-2", resp.Messages[1].ID)
}

func TestHistory_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.store.err = domain.ErrNotFound

	w := doJSON(t, env.router, http.MethodGet, "/api/v1/conversations/missing/messages", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSend_ReturnsBothSides(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/v1/conversations/conv-1/messages", `{"message":"where do I start?"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		UserMessage      domain.Message `json:"user_message"`
		AssistantMessage domain.Message `json:"assistant_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.RoleUser, resp.UserMessage.Role)
	assert.Equal(t, "where do I start?", resp.UserMessage.Content)
	assert.Equal(t, domain.RoleAssistant, resp.AssistantMessage.Role)
	assert.Equal(t, "start with a landing page", resp.AssistantMessage.Content)
}

func TestSend_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/v1/conversations/conv-1/messages", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSend_RelayFailureStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"rate limited", relay.ErrRateLimited, http.StatusTooManyRequests},
		{"quota exhausted", relay.ErrQuotaExhausted, http.StatusPaymentRequired},
		{"upstream", relay.ErrUpstream, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.relay.err = tc.err

			w := doJSON(t, env.router, http.MethodPost, "/api/v1/conversations/conv-1/messages", `{"message":"hello"}`)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestSendStatus_Mapping(t *testing.T) {
	status, _ := sendStatus(domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, status)

	status, msg := sendStatus(domain.ErrSendInFlight)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, domain.ErrSendInFlight.Error(), msg)

	status, _ = sendStatus(fmt.Errorf("wrapped: %w", relay.ErrRateLimited))
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, msg = sendStatus(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "failed to send message", msg)
}
