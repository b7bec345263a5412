package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/mealmate/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"recipe_id", "recipe_name", "ready",
	"ingredient", "purchased", "latitude", "longitude",
}

// ExportRow is the JSON representation of one export row.
type ExportRow struct {
	RecipeID   string   `json:"recipe_id"`
	RecipeName string   `json:"recipe_name"`
	Ready      bool     `json:"ready"`
	Ingredient string   `json:"ingredient,omitempty"`
	Purchased  bool     `json:"purchased"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// GetExport handles GET /export.
// It returns one row per recipe ingredient. Use ?format=csv to receive CSV;
// default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, err := queryString(r, "format")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be csv or json"))
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, "export", err)
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV. Missing coordinates are empty cells.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer writes never fail.
	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		_ = cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="mealmate-export.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func domainRowToResponse(r domain.ExportRow) ExportRow {
	row := ExportRow{
		RecipeID:   r.RecipeID,
		RecipeName: r.RecipeName,
		Ready:      r.Ready,
		Ingredient: r.Ingredient,
		Purchased:  r.Purchased,
	}
	if r.Location != nil {
		lat, lon := r.Location.Latitude, r.Location.Longitude
		row.Latitude, row.Longitude = &lat, &lon
	}
	return row
}

func domainRowToCSVRecord(r domain.ExportRow) []string {
	lat, lon := "", ""
	if r.Location != nil {
		lat = strconv.FormatFloat(r.Location.Latitude, 'f', -1, 64)
		lon = strconv.FormatFloat(r.Location.Longitude, 'f', -1, 64)
	}
	return []string{
		r.RecipeID,
		r.RecipeName,
		strconv.FormatBool(r.Ready),
		r.Ingredient,
		strconv.FormatBool(r.Purchased),
		lat,
		lon,
	}
}
