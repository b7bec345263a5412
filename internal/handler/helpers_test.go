package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/handler"
)

// services groups the mocks a test wires into the Server. Nil fields stay nil.
type services struct {
	recipes handler.RecipeServicer
	edits   handler.EditServicer
	shares  handler.ShareServicer
	export  handler.ExportServicer
}

// newHTTPHandler wires a Server with the given mocks into its router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(s services) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(s.recipes, s.edits, s.shares, s.export, log).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, body io.Reader) handler.ErrorResponse {
	t.Helper()
	var e handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&e))
	return e
}
