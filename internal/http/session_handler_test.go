package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lexchat/internal/domain"
)

func (e *chatTestEnv) doGet(t *testing.T, token, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestListSessions_OnlyOwn(t *testing.T) {
	env := setupChatEnv(allowAllLimiter{})
	now := time.Now().UTC()
	env.sessions.sessions["s1"] = domain.ChatSession{ID: "s1", UserID: "u1", Title: "mine", UpdatedAt: now}
	env.sessions.sessions["s2"] = domain.ChatSession{ID: "s2", UserID: "u2", Title: "other", UpdatedAt: now}
	env.messages.messages = []domain.Message{
		{ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "q", CreatedAt: now},
		{ID: "m2", SessionID: "s1", Role: domain.RoleAssistant, Content: "a", CreatedAt: now.Add(time.Second)},
	}

	w := env.doGet(t, env.token(t, "u1"), "/sessions")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Sessions []struct {
			ID           string `json:"id"`
			MessageCount int    `json:"message_count"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].ID != "s1" {
		t.Fatalf("expected only caller sessions, got %+v", resp.Sessions)
	}
	if resp.Sessions[0].MessageCount != 2 {
		t.Fatalf("expected message_count 2, got %d", resp.Sessions[0].MessageCount)
	}
}

func TestListSessions_RequiresToken(t *testing.T) {
	env := setupChatEnv(allowAllLimiter{})
	if w := env.doGet(t, "", "/sessions"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestListMessages_OwnerGetsOrderedTranscript(t *testing.T) {
	env := setupChatEnv(allowAllLimiter{})
	env.sessions.sessions["s1"] = domain.ChatSession{ID: "s1", UserID: "u1"}
	base := time.Now().UTC()
	env.messages.messages = []domain.Message{
		{ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "q", CreatedAt: base},
		{ID: "m2", SessionID: "s1", Role: domain.RoleAssistant, Content: "a", CreatedAt: base.Add(time.Second)},
	}

	w := env.doGet(t, env.token(t, "u1"), "/sessions/s1/messages")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Messages) != 2 || resp.Messages[0].ID != "m1" || resp.Messages[1].ID != "m2" {
		t.Fatalf("expected ordered transcript, got %+v", resp.Messages)
	}
}

func TestListMessages_ForeignSessionForbidden(t *testing.T) {
	env := setupChatEnv(allowAllLimiter{})
	env.sessions.sessions["s1"] = domain.ChatSession{ID: "s1", UserID: "owner"}

	if w := env.doGet(t, env.token(t, "attacker"), "/sessions/s1/messages"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestListMessages_UnknownSession(t *testing.T) {
	env := setupChatEnv(allowAllLimiter{})
	if w := env.doGet(t, env.token(t, "u1"), "/sessions/missing/messages"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
