package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/handler"
)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time check: mockExportServicer must satisfy handler.ExportServicer.
var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func newExportHTTPHandler(svc handler.ExportServicer) http.Handler {
	return newHTTPHandler(services{export: svc})
}

func rowsService(rows ...domain.ExportRow) *mockExportServicer {
	return &mockExportServicer{
		export: func(_ context.Context) ([]domain.ExportRow, error) { return rows, nil },
	}
}

// exportRowFixture returns a fully-populated domain.ExportRow for testing.
func exportRowFixture() domain.ExportRow {
	return domain.ExportRow{
		RecipeID:   uuid.New().String(),
		RecipeName: "Pancakes",
		Ready:      false,
		Ingredient: "Egg",
		Purchased:  true,
		Location:   &domain.LatLng{Latitude: 52.52, Longitude: 13.405},
	}
}

// ---- GET /export JSON ------------------------------------------------------

func TestGetExport_DefaultJSON_EmptyResult(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetExport_FormatJSON_ExplicitParam(t *testing.T) {
	row := exportRowFixture()

	req := httptest.NewRequest(http.MethodGet, "/export?format=json", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService(row)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []handler.ExportRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, row.RecipeName, rows[0].RecipeName)
	require.NotNil(t, rows[0].Latitude)
	assert.Equal(t, 52.52, *rows[0].Latitude)
}

func TestGetExport_JSON_NoLocation_OmitsCoordinates(t *testing.T) {
	row := exportRowFixture()
	row.Location = nil
	row.Purchased = false

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService(row)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "latitude")
}

func TestGetExport_UnknownFormat_Returns400(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export?format=xml", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /export CSV -------------------------------------------------------

func TestGetExport_CSV_EmptyResult_HasHeaderRow(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export?format=csv", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "recipe_id,"), "CSV should start with header row, got: %q", body)
}

func TestGetExport_CSV_OneRow_HasHeaderAndDataRow(t *testing.T) {
	row := exportRowFixture()

	req := httptest.NewRequest(http.MethodGet, "/export?format=csv", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService(row)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, row.RecipeID+",Pancakes,false,Egg,true,52.52,13.405", lines[1])
}

func TestGetExport_CSV_MissingLocation_EmptyCells(t *testing.T) {
	row := exportRowFixture()
	row.Location = nil

	req := httptest.NewRequest(http.MethodGet, "/export?format=csv", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService(row)).ServeHTTP(rec, req)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], ",true,,"), "got %q", lines[1])
}

// ---- error handling --------------------------------------------------------

func TestGetExport_ServiceError_Returns500(t *testing.T) {
	svc := &mockExportServicer{
		export: func(_ context.Context) ([]domain.ExportRow, error) {
			return nil, fmt.Errorf("database unavailable")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec.Body).Error.Code)
}
