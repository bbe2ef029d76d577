package relay

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/launchmentor/launchmentor-backend/internal/mentors"
)

type fakeCompletion struct {
	calls      int
	lastModel  string
	lastSystem string
	lastUser   string
	reply      string
	err        error
}

func (f *fakeCompletion) Complete(ctx context.Context, model, systemPrompt, userContent string) (string, error) {
	f.calls++
	f.lastModel = model
	f.lastSystem = systemPrompt
	f.lastUser = userContent
	return f.reply, f.err
}

func TestHandleTurn_NoContextForwardsMessageUntouched(t *testing.T) {
	gw := &fakeCompletion{reply: "ship it"}
	svc := NewService(gw, "test-model", true)

	reply, err := svc.HandleTurn(context.Background(), TurnRequest{
		MentorID: "tech",
		Message:  "Should I use Postgres or Mongo?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "ship it" {
		t.Errorf("unexpected reply: %q", reply)
	}
	if gw.lastUser != "Should I use Postgres or Mongo?" {
		t.Errorf("expected message forwarded untouched, got %q", gw.lastUser)
	}
	if gw.lastSystem != mentors.PromptFor("tech") {
		t.Errorf("expected tech mentor persona, got %q", gw.lastSystem)
	}
	if gw.lastModel != "test-model" {
		t.Errorf("unexpected model: %q", gw.lastModel)
	}
	if gw.calls != 1 {
		t.Errorf("expected one gateway call, got %d", gw.calls)
	}
}

func TestHandleTurn_ContextBlockComposition(t *testing.T) {
	gw := &fakeCompletion{reply: "ok"}
	svc := NewService(gw, "test-model", true)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{
		MentorID: "growth",
		Message:  "How do I find my first users?",
		ProjectContext: &ProjectContext{
			Idea:  "AI meal planner",
			Stage: "mvp",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "\nProject Context:\n- Idea: AI meal planner\n- Stage: mvp\n- Industry: Not specified\n\nUser question:\nHow do I find my first users?"
	if gw.lastUser != want {
		t.Errorf("composed content mismatch:\ngot:  %q\nwant: %q", gw.lastUser, want)
	}
}

func TestHandleTurn_EmptyContextFieldsDefault(t *testing.T) {
	gw := &fakeCompletion{reply: "ok"}
	svc := NewService(gw, "test-model", true)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{
		MentorID:       "validation",
		Message:        "hi",
		ProjectContext: &ProjectContext{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(gw.lastUser, "Not specified") != 3 {
		t.Errorf("expected all three fields defaulted, got %q", gw.lastUser)
	}
	if !strings.HasSuffix(gw.lastUser, "User question:\nhi") {
		t.Errorf("expected question after marker, got %q", gw.lastUser)
	}
}

func TestHandleTurn_UnknownMentorFallsBackToStrategist(t *testing.T) {
	gw := &fakeCompletion{reply: "ok"}
	svc := NewService(gw, "test-model", true)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{
		MentorID: "ceo",
		Message:  "hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.lastSystem != mentors.PromptFor(mentors.DefaultID) {
		t.Errorf("expected strategist persona for unknown mentor")
	}
}

func TestHandleTurn_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		req  TurnRequest
	}{
		{"empty message", TurnRequest{MentorID: "tech"}},
		{"whitespace message", TurnRequest{MentorID: "tech", Message: "   "}},
		{"empty mentor", TurnRequest{Message: "hello"}},
		{"both empty", TurnRequest{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeCompletion{reply: "ok"}
			svc := NewService(gw, "test-model", true)

			_, err := svc.HandleTurn(context.Background(), tc.req)
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
			if gw.calls != 0 {
				t.Errorf("validation failure must not reach the gateway, got %d calls", gw.calls)
			}
		})
	}
}

func TestHandleTurn_MissingAPIKey(t *testing.T) {
	gw := &fakeCompletion{reply: "ok"}
	svc := NewService(gw, "test-model", false)

	_, err := svc.HandleTurn(context.Background(), TurnRequest{MentorID: "tech", Message: "hello"})
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
	if gw.calls != 0 {
		t.Errorf("configuration failure must not reach the gateway, got %d calls", gw.calls)
	}
}

func TestHandleTurn_GatewayErrorsWrapped(t *testing.T) {
	for _, sentinel := range []error{ErrRateLimited, ErrQuotaExhausted, ErrUpstream} {
		gw := &fakeCompletion{err: sentinel}
		svc := NewService(gw, "test-model", true)

		_, err := svc.HandleTurn(context.Background(), TurnRequest{MentorID: "tech", Message: "hello"})
		if !errors.Is(err, sentinel) {
			t.Errorf("expected wrapped %v, got %v", sentinel, err)
		}
		if gw.calls != 1 {
			t.Errorf("expected no retry after %v, got %d calls", sentinel, gw.calls)
		}
	}
}
