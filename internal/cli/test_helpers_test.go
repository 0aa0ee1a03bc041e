package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/MrSnakeDoc/haven/internal/config"
	"github.com/MrSnakeDoc/haven/internal/logger"
	"github.com/MrSnakeDoc/haven/internal/store/memory"
	"github.com/MrSnakeDoc/haven/internal/workspace"
)

// testEnv shares one memory-backed workspace across CLI invocations.
type testEnv struct {
	store *memory.Store
	ws    *workspace.Workspace
	out   bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := memory.New()
	return &testEnv{
		store: s,
		ws:    workspace.New(context.Background(), s, logger.Nop(), config.DefaultFaviconService),
	}
}

// run executes havenctl with args against the shared workspace.
func (e *testEnv) run(args ...string) error {
	e.out.Reset()
	globals := &GlobalFlags{
		out: &e.out,
		open: func(context.Context, *GlobalFlags) (*workspace.Workspace, func(), error) {
			return e.ws, func() {}, nil
		},
	}
	return run(globals, "test", args)
}
