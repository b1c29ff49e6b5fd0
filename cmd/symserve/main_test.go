package main

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitOnSignalNormalReturn(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	var exits atomic.Int32
	ctx, release := exitOnSignal(sigs, func() { exits.Add(1) })
	require.NoError(t, ctx.Err())

	release()
	release()

	<-ctx.Done()
	assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
	assert.Never(t, func() bool { return exits.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestExitOnSignalCancelsBeforeExit(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	causes := make(chan error, 1)
	var ctx context.Context
	ctx, release := exitOnSignal(sigs, func() { causes <- context.Cause(ctx) })
	defer release()

	sigs <- syscall.SIGTERM
	select {
	case cause := <-causes:
		require.Error(t, cause)
		assert.Contains(t, cause.Error(), "terminated")
	case <-time.After(time.Second):
		t.Fatal("exit was not called after a signal")
	}
	assert.Error(t, ctx.Err())
}

func TestSplitLists(t *testing.T) {
	assert.Equal(t, []string{".go", ".py"}, splitExtensions("go, .py,,"))
	assert.Equal(t, []string{"main.go", "Makefile"}, splitList(" main.go ,Makefile"))
	assert.Empty(t, splitList(" , "))
}
