package cli

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/queuebot/internal/config"
)

func TestResolveOperator(t *testing.T) {
	cfg := &config.Config{AdminIDs: []int64{30, 10, 20}}

	caller, err := resolveOperator(cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), caller.ID)

	caller, err = resolveOperator(cfg, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), caller.ID)

	_, err = resolveOperator(&config.Config{}, 0)
	assert.Error(t, err)
}

func TestRunUntilDone_StopsAllOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var stopped atomic.Int32

	loop := func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Add(1)
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- runUntilDone(ctx, loop, loop) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runUntilDone did not return")
	}
	assert.Equal(t, int32(2), stopped.Load())
}

func TestRunUntilDone_FailureStopsOthers(t *testing.T) {
	failing := func(ctx context.Context) error {
		return errors.New("update channel closed")
	}
	waiting := func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}

	err := runUntilDone(context.Background(), failing, waiting)
	assert.EqualError(t, err, "update channel closed")
}
