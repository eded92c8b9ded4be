package context

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/opc-tools/opcdiag/configuration"
)

type ctxKey string

const key ctxKey = "github.com/opc-tools/opcdiag/cli/internal/context"

// Context is the opc-diag command line context.
// It carries pointers to structures that are set up once before a command runs
// and are shared by all commands of an invocation.
//
// The Context should only be used to transfer centrally passed struct pointers.
type Context struct {
	mu sync.RWMutex

	// configuration is the resolved configuration of the CLI.
	// In case no configuration file was found it is empty, and defaults apply.
	configuration *configuration.Config
}

// WithConfiguration creates a new context with the given configuration.
// After this function is called, the configuration can be retrieved from the context
// using [FromContext] and [Context.Configuration].
func WithConfiguration(ctx context.Context, cfg *configuration.Config) context.Context {
	ctx, diagctx := retrieveOrCreate(ctx)
	diagctx.mu.Lock()
	defer diagctx.mu.Unlock()
	diagctx.configuration = cfg
	return ctx
}

// Register makes sure the command carries a Context.
func Register(cmd *cobra.Command) {
	ctx, _ := retrieveOrCreate(cmd.Context())
	cmd.SetContext(ctx)
}

// Configuration returns the configuration, or nil if none was set.
func (ctx *Context) Configuration() *configuration.Config {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.configuration
}

// FromContext retrieves the opc-diag context from the given context.
// If it does not exist, it returns nil.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

// WithContext creates a new context with the given opc-diag context.
func WithContext(ctx context.Context, c *Context) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, key, c)
}

func retrieveOrCreate(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	diagctx := FromContext(ctx)
	if diagctx == nil {
		diagctx = &Context{}
		ctx = WithContext(ctx, diagctx)
	}
	return ctx, diagctx
}
