package llm

import (
	"context"
	"strings"
)

// MockProvider permite tests sin llamar a un proveedor real.
// En modo stream emite Fragments uno a uno; si Fragments está vacío,
// parte Response en fragmentos de FragmentSize bytes.
type MockProvider struct {
	Response     string
	Fragments    []string
	FragmentSize int
	Err          error
	StreamErr    error // se devuelve después de emitir todos los fragmentos

	LastRequest   CompletionRequest
	CompleteCalls int
	StreamCalls   int
}

func (m *MockProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	m.LastRequest = req
	m.CompleteCalls++
	return m.Response, m.Err
}

func (m *MockProvider) CompleteStream(ctx context.Context, req CompletionRequest, onFragment func(string) error) (string, error) {
	m.LastRequest = req
	m.StreamCalls++
	if m.Err != nil {
		return "", m.Err
	}

	fragments := m.Fragments
	if len(fragments) == 0 {
		fragments = splitFragments(m.Response, m.FragmentSize)
	}

	var full strings.Builder
	for _, f := range fragments {
		if ctx.Err() != nil {
			return full.String(), ctx.Err()
		}
		full.WriteString(f)
		if err := onFragment(f); err != nil {
			return full.String(), err
		}
	}
	return full.String(), m.StreamErr
}

func splitFragments(s string, size int) []string {
	if size <= 0 {
		size = 4
	}
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
