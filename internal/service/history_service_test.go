package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lexchat/internal/domain"
)

func TestHistoryWindow_BoundAndOrder(t *testing.T) {
	repo := &mockMessageRepo{}
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 100; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		repo.messages = append(repo.messages, domain.Message{
			ID:        fmt.Sprintf("m%03d", i),
			SessionID: "s1",
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	svc := NewBasicHistoryService(repo, 10)
	window, err := svc.Window(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(window) != 10 {
		t.Fatalf("expected window of 10, got %d", len(window))
	}
	if window[0].Content != "message 90" {
		t.Fatalf("expected oldest of the last 10 first, got %q", window[0].Content)
	}
	if window[9].Content != "message 99" {
		t.Fatalf("expected newest last, got %q", window[9].Content)
	}
	for i := 1; i < len(window); i++ {
		if window[i].CreatedAt.Before(window[i-1].CreatedAt) {
			t.Fatalf("window must be oldest-first")
		}
	}
}

func TestHistoryWindow_FewerMessagesThanLimit(t *testing.T) {
	repo := &mockMessageRepo{messages: []domain.Message{
		{ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "hola", CreatedAt: time.Now().UTC()},
	}}
	svc := NewBasicHistoryService(repo, 10)
	window, err := svc.Window(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(window) != 1 {
		t.Fatalf("expected 1 message, got %d", len(window))
	}
}

func TestHistoryWindow_EmptySessionID(t *testing.T) {
	svc := NewBasicHistoryService(&mockMessageRepo{}, 10)
	window, err := svc.Window(context.Background(), "  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(window) != 0 {
		t.Fatalf("expected empty window, got %d", len(window))
	}
}

func TestHistoryWindow_DefaultLimit(t *testing.T) {
	svc := NewBasicHistoryService(&mockMessageRepo{}, 0)
	if svc.window != 10 {
		t.Fatalf("expected default window of 10, got %d", svc.window)
	}
}
