package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/transport"
)

func TestLog_WritesOneLinePerSegment(t *testing.T) {
	var buf bytes.Buffer
	l := transport.NewLog(slog.New(slog.NewJSONHandler(&buf, nil)), 70)

	require.NoError(t, l.Send(context.Background(), "+15550100", []string{"a", "b"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "b", entry["text"])
	assert.EqualValues(t, 2, entry["part"])
	assert.Equal(t, 70, l.SegmentLimit())
}
