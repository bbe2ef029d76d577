package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(gw *fakeCompletion, hasKey bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewService(gw, "test-model", hasKey))
	h.Register(r.Group("/api/v1"))
	return r
}

func postMentorChat(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentor-chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMentorChat_Success(t *testing.T) {
	gw := &fakeCompletion{reply: "talk to ten customers first"}
	r := newTestRouter(gw, true)

	w := postMentorChat(t, r, `{"mentorId":"validation","message":"Is my idea any good?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["response"] != "talk to ten customers first" {
		t.Errorf("unexpected payload: %v", resp)
	}
}

func TestMentorChat_MissingFields(t *testing.T) {
	gw := &fakeCompletion{reply: "ok"}
	r := newTestRouter(gw, true)

	w := postMentorChat(t, r, `{"mentorId":"tech"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if gw.calls != 0 {
		t.Errorf("expected no outbound call, got %d", gw.calls)
	}
}

func TestMentorChat_InvalidBody(t *testing.T) {
	gw := &fakeCompletion{reply: "ok"}
	r := newTestRouter(gw, true)

	w := postMentorChat(t, r, `{not json`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for malformed body, got %d", w.Code)
	}
	if gw.calls != 0 {
		t.Errorf("expected no outbound call, got %d", gw.calls)
	}
}

func TestMentorChat_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		gwErr      error
		wantStatus int
		wantMsg    string
	}{
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, ErrRateLimited.Error()},
		{"quota exhausted", ErrQuotaExhausted, http.StatusPaymentRequired, ErrQuotaExhausted.Error()},
		{"upstream failure", ErrUpstream, http.StatusInternalServerError, ErrUpstream.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeCompletion{err: tc.gwErr}
			r := newTestRouter(gw, true)

			w := postMentorChat(t, r, `{"mentorId":"tech","message":"hello"}`)
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp["error"] != tc.wantMsg {
				t.Errorf("expected error %q, got %q", tc.wantMsg, resp["error"])
			}
		})
	}
}

func TestMentorChat_MissingKeyIsServerError(t *testing.T) {
	gw := &fakeCompletion{reply: "ok"}
	r := newTestRouter(gw, false)

	w := postMentorChat(t, r, `{"mentorId":"tech","message":"hello"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when key is unset, got %d", w.Code)
	}
	if gw.calls != 0 {
		t.Errorf("expected no outbound call, got %d", gw.calls)
	}
}
