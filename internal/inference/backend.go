package inference

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"
)

// ErrNotReady reports that no inference backend finished initialization.
// The condition is permanent for the process lifetime; health reporting
// surfaces it instead of attempting a reload.
var ErrNotReady = errors.New("inference backend not initialized")

// Backend turns an assembled turn list into generated text. Implementations
// own the model lifecycle; callers never retry a failed Generate.
type Backend interface {
	Generate(ctx context.Context, msgs []*schema.Message) (string, error)
	ModelName() string
}
