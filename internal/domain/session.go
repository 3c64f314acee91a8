package domain

import (
	"time"
	"unicode/utf8"
)

// ChatSession agrupa los mensajes de una conversación legal de un usuario.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	sessionTitleMax    = 50
	sessionTitlePrefix = 47
)

// DeriveSessionTitle construye el título de una sesión a partir del primer mensaje.
// Mensajes de más de 50 caracteres se truncan a 47 + "...". El corte es por
// runas, no por bytes: los primeros mensajes en hindi u otros alfabetos
// multibyte no pueden quedar con un título UTF-8 inválido.
func DeriveSessionTitle(firstMessage string) string {
	if utf8.RuneCountInString(firstMessage) <= sessionTitleMax {
		return firstMessage
	}
	return string([]rune(firstMessage)[:sessionTitlePrefix]) + "..."
}
