package bindz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// dialog is a typical scope owner.
type dialog struct {
	scope *Scope[string, string]
	rec   *recorder
}

func (d *dialog) open() error {
	if err := d.scope.Bind(KeyDown, d.rec.handler(d.scope.ID()+"/keydown")); err != nil {
		return err
	}
	return d.scope.Bind(Click, d.rec.handler(d.scope.ID()+"/click"))
}

func (d *dialog) close() error {
	return d.scope.Release()
}

func TestScopeLayeredDialogs(t *testing.T) {
	stack, target, rec := newTestStack(t)

	settings := &dialog{scope: stack.Scope("settings"), rec: rec}
	confirm := &dialog{scope: stack.Scope("confirm"), rec: rec}

	require.NoError(t, settings.open())
	require.NoError(t, confirm.open())
	assert.True(t, settings.scope.Bound())
	assert.Equal(t, []string{"confirm/keydown"}, rec.fire(t, target, KeyDown))

	require.NoError(t, confirm.close())
	assert.False(t, confirm.scope.Bound())
	assert.Equal(t, []string{"settings/keydown"}, rec.fire(t, target, KeyDown))
	assert.Equal(t, []string{"settings/click"}, rec.fire(t, target, Click))

	// Releasing again changes nothing
	require.NoError(t, confirm.close())
	assert.Equal(t, 1, target.Listeners(KeyDown))

	require.NoError(t, settings.close())
	assert.Zero(t, target.Metrics().RegisteredHooks)
}

func TestStackLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	target := New[string](WithLogger(zap.New(core)))
	defer target.Close()
	stack := NewStack[string, string](target, WithLogger(zap.New(core)))
	noop := func(ctx context.Context, s string) error { return nil }

	require.NoError(t, stack.Bind(Click, noop, "A"))
	require.NoError(t, stack.Bind(Click, noop, "A"))
	require.NoError(t, stack.UnbindAll("A"))

	assert.Equal(t, 1, logs.FilterMessage("group pushed").Len())
	assert.Equal(t, 1, logs.FilterMessage("handler replaced").Len())
	removed := logs.FilterMessage("group removed").All()
	require.Len(t, removed, 1)
	assert.Equal(t, "stack", removed[0].LoggerName)
	assert.Equal(t, "A", removed[0].ContextMap()["group"])
}

func TestTargetLogsPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	target := New[string](WithLogger(zap.New(core)))
	defer target.Close()

	_, err := target.Hook(Click, func(ctx context.Context, s string) error {
		panic("bad handler")
	})
	require.NoError(t, err)

	assert.ErrorIs(t, target.Dispatch(context.Background(), Click, "x"), ErrHookPanicked)
	entries := logs.FilterMessage("handler panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bad handler", entries[0].ContextMap()["panic"])
	assert.Equal(t, Click, entries[0].ContextMap()["event"])
}
