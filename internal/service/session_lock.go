package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionBusy indica que otro turno está en vuelo sobre la misma sesión.
var ErrSessionBusy = errors.New("session busy")

// SessionLocker serializa turnos concurrentes sobre una misma sesión.
// El lock cubre el turno completo: append del usuario, generación y append
// del asistente.
type SessionLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// memorySessionLocker serializa dentro de un solo proceso. Las entradas del
// mapa no se evictan: una por sesión vista durante la vida del proceso.
type memorySessionLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewMemorySessionLocker() SessionLocker {
	return &memorySessionLocker{locks: make(map[string]chan struct{})}
}

func (l *memorySessionLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[sessionID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[sessionID] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

const redisUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// redisSessionLocker toma un lease SETNX con TTL, para despliegues con más de
// una instancia. No bloquea: si el lease ya existe devuelve ErrSessionBusy.
type redisSessionLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisSessionLocker(client *redis.Client, ttl time.Duration) SessionLocker {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &redisSessionLocker{
		client: client,
		ttl:    ttl,
		prefix: "chat:turn:",
	}
}

func (l *redisSessionLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := l.prefix + sessionID
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		// Redis caído no debe tumbar el turno; se degrada a sin serialización.
		return func() {}, nil
	}
	if !ok {
		return nil, ErrSessionBusy
	}

	release := func() {
		ctxDel, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		l.client.Eval(ctxDel, redisUnlockScript, []string{key}, token)
	}
	return release, nil
}
