package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDeriveSessionTitle_TruncatesLongMessages(t *testing.T) {
	msg := "What are my rights as a tenant if my landlord refuses to return my security deposit after I moved out three months ago?"
	got := DeriveSessionTitle(msg)
	want := "What are my rights as a tenant if my landlord r..."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if len(got) != 50 {
		t.Fatalf("expected 50 chars, got %d", len(got))
	}
}

func TestDeriveSessionTitle_KeepsShortMessages(t *testing.T) {
	if got := DeriveSessionTitle("Hello"); got != "Hello" {
		t.Fatalf("expected %q, got %q", "Hello", got)
	}
}

func TestDeriveSessionTitle_MultibyteMessageStaysValidUTF8(t *testing.T) {
	msg := "क्या मकान मालिक मेरी सिक्योरिटी डिपॉजिट वापस करने से मना कर सकता है अगर मैंने समय पर किराया दिया है?"
	got := DeriveSessionTitle(msg)

	if !utf8.ValidString(got) {
		t.Fatalf("title must be valid UTF-8, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated title, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 50 {
		t.Fatalf("expected 50 runes, got %d", n)
	}
	if want := string([]rune(msg)[:47]) + "..."; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDeriveSessionTitle_ExactBoundary(t *testing.T) {
	msg := make([]byte, 50)
	for i := range msg {
		msg[i] = 'a'
	}
	if got := DeriveSessionTitle(string(msg)); got != string(msg) {
		t.Fatalf("expected message of exactly 50 chars untouched, got %q", got)
	}
}
