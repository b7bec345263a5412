package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/app"
	"github.com/pkordes/mealmate/internal/config"
	"github.com/pkordes/mealmate/internal/transport"
	"github.com/pkordes/mealmate/testutil"
)

func TestNewTransport_NoWebhookLogs(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{LogLevel: "info", MessageSegmentLimit: 70}
	log := app.NewLogger(&buf, cfg)

	tr := app.NewTransport(cfg, log)

	require.IsType(t, &transport.Log{}, tr)
	assert.Equal(t, 70, tr.SegmentLimit())

	require.NoError(t, tr.Send(context.Background(), "+15550100", []string{"hello"}))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "message segment", line["msg"])
	assert.Equal(t, "hello", line["text"])
}

func TestNewTransport_Webhook(t *testing.T) {
	cfg := config.Config{MessageWebhookURL: "http://gateway.invalid/send", MessageSegmentLimit: 160}

	tr := app.NewTransport(cfg, app.NewLogger(&bytes.Buffer{}, cfg))

	require.IsType(t, &transport.Webhook{}, tr)
	assert.Equal(t, 160, tr.SegmentLimit())
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := app.NewLogger(&buf, config.Config{LogLevel: "warn"})

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestMigrate_Idempotent(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()
	log := app.NewLogger(&bytes.Buffer{}, config.Config{})

	require.NoError(t, app.Migrate(ctx, pool, log))
	require.NoError(t, app.Migrate(ctx, pool, log))

	provider, closeDB, err := app.NewMigrator(pool)
	require.NoError(t, err)
	defer closeDB()

	pending, err := provider.HasPending(ctx)
	require.NoError(t, err)
	assert.False(t, pending)
}
