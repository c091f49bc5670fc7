package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerUsableBeforeInitialize(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("not initialized yet")
		Error(errors.New("boom"))
		WarnCtx(context.Background(), "still fine")
	})
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true}))
	assert.NotNil(t, Default())
	assert.NotPanics(t, func() {
		DebugCtx(context.Background(), "debug enabled")
		Flush(0)
	})
}

func TestFromContextAddsHopFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	previous := log
	log = zap.New(core)
	t.Cleanup(func() { log = previous })

	ctx := WithHop(context.Background(), HopInfo{BatchID: "B1", Role: "Distributor", Action: "hop"})
	InfoCtx(ctx, "hop started")
	Info("plain line")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "B1", fields["batch_id"])
	assert.Equal(t, "Distributor", fields["role"])
	assert.Equal(t, "hop", fields["action"])

	_, ok := entries[1].ContextMap()["batch_id"]
	assert.False(t, ok)
}
