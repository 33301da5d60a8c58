package inference

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// StubBackend returns canned answers. It keeps the service exercisable in
// tests and local development without model credentials.
type StubBackend struct {
	Answer string
	Err    error
	Name   string

	// Calls records every turn list the stub received.
	Calls [][]*schema.Message
}

// Generate records the request and returns the configured answer or error.
func (b *StubBackend) Generate(_ context.Context, msgs []*schema.Message) (string, error) {
	b.Calls = append(b.Calls, msgs)
	if b.Err != nil {
		return "", b.Err
	}
	return b.Answer, nil
}

// ModelName returns the configured stub model name.
func (b *StubBackend) ModelName() string {
	if b.Name == "" {
		return "stub"
	}
	return b.Name
}
