package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/location"
	"github.com/pkordes/mealmate/internal/session"
)

// OpenEditRequest is the body of POST /recipes/{id}/edits. The body is optional.
type OpenEditRequest struct {
	Capabilities []string `json:"capabilities"`
}

// SetPurchasedRequest is the body of PUT /edits/{eid}/ingredients/{name}.
type SetPurchasedRequest struct {
	Purchased bool           `json:"purchased"`
	Location  *domain.LatLng `json:"location,omitempty"`
}

// GrantRequest answers a capability request.
type GrantRequest struct {
	Granted bool `json:"granted"`
}

// Edit is the JSON representation of an edit session.
type Edit struct {
	ID          uuid.UUID                `json:"id"`
	RecipeID    uuid.UUID                `json:"recipe_id"`
	RecipeName  string                   `json:"recipe_name"`
	Ingredients []string                 `json:"ingredients"`
	Purchased   []string                 `json:"purchased_ingredients"`
	Locations   map[string]domain.LatLng `json:"locations"`
	Ready       bool                     `json:"ready"`
	Pending     []domain.Capability      `json:"pending"`
}

// ImportLocationsRequest is the body of PUT /edits/{eid}/locations.
type ImportLocationsRequest struct {
	Locations map[string]string `json:"locations"`
}

// ImportLocationsResult reports the session and the ingredients left unchanged.
type ImportLocationsResult struct {
	Edit
	Skipped []string `json:"skipped"`
}

// GrantResult is the body of POST /edits/{eid}/grants/{capability}.
type GrantResult struct {
	Edit
	Outcome string `json:"outcome"`
}

// OpenEdit handles POST /recipes/{id}/edits.
func (s *Server) OpenEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	var body OpenEditRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeDecodeError(w, err)
			return
		}
	}
	granted, err := parseCapabilities(body.Capabilities)
	if err != nil {
		s.writeError(w, r, "capability", err)
		return
	}

	view, err := s.edits.Open(r.Context(), id, granted)
	if err != nil {
		s.writeError(w, r, "recipe", err)
		return
	}
	writeJSON(w, http.StatusCreated, viewToResponse(view))
}

// GetEdit handles GET /edits/{eid}.
func (s *Server) GetEdit(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	view, err := s.edits.View(eid)
	if err != nil {
		s.writeError(w, r, "edit session", err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// SetPurchased handles PUT /edits/{eid}/ingredients/{name}.
// Responds 202 when a location lookup is waiting for the location capability.
func (s *Server) SetPurchased(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	name, err := pathString(r, "name")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var body SetPurchasedRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	view, err := s.edits.SetPurchased(eid, name, body.Purchased, body.Location)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, viewToResponse(view))
	case errors.Is(err, domain.ErrAwaitingGrant):
		writeJSON(w, http.StatusAccepted, viewToResponse(view))
	default:
		s.writeError(w, r, "edit session", err)
	}
}

// SetLocation handles PUT /edits/{eid}/ingredients/{name}/location.
func (s *Server) SetLocation(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	name, err := pathString(r, "name")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var at domain.LatLng
	if isTextPlain(r) {
		text, err := readText(r)
		if err != nil {
			writeDecodeError(w, err)
			return
		}
		if at, err = location.ParseText(text); err != nil {
			s.writeError(w, r, "location", err)
			return
		}
	} else if at, err = decodeLatLng(r); err != nil {
		writeDecodeError(w, err)
		return
	}

	view, err := s.edits.SetLocation(eid, name, at)
	if err != nil {
		s.writeError(w, r, "edit session", err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// ImportLocations handles PUT /edits/{eid}/locations. Each entry maps an
// ingredient to "lat, lon" text; entries that cannot be applied are listed in
// skipped rather than failing the request.
func (s *Server) ImportLocations(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var body ImportLocationsRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if body.Locations == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("locations is required"))
		return
	}

	view, skipped, err := s.edits.ImportLocations(eid, body.Locations)
	if err != nil {
		s.writeError(w, r, "edit session", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportLocationsResult{Edit: viewToResponse(view), Skipped: nonNil(skipped)})
}

// GrantEdit handles POST /edits/{eid}/grants/{capability}.
func (s *Server) GrantEdit(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	raw, err := pathString(r, "capability")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	c, err := domain.ParseCapability(raw)
	if err != nil {
		s.writeError(w, r, "capability", err)
		return
	}
	var body GrantRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	view, state, err := s.edits.Grant(eid, c, body.Granted)
	if err != nil {
		s.writeError(w, r, "edit session", err)
		return
	}
	writeJSON(w, http.StatusOK, GrantResult{Edit: viewToResponse(view), Outcome: state.String()})
}

// ReportDeviceLocation handles POST /edits/{eid}/device-location.
func (s *Server) ReportDeviceLocation(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	at, err := decodeLatLng(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := s.edits.ReportDeviceLocation(eid, at); err != nil {
		s.writeError(w, r, "edit session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveEdit handles POST /edits/{eid}/save.
func (s *Server) SaveEdit(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	saved, err := s.edits.Save(r.Context(), eid)
	if err != nil {
		s.writeError(w, r, "edit session", err)
		return
	}
	writeJSON(w, http.StatusOK, recipeToResponse(saved))
}

// CancelEdit handles DELETE /edits/{eid}.
func (s *Server) CancelEdit(w http.ResponseWriter, r *http.Request) {
	eid, err := pathUUID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	if err := s.edits.Cancel(eid); err != nil {
		s.writeError(w, r, "edit session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// latLngBody requires both coordinates to be present.
type latLngBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func decodeLatLng(r *http.Request) (domain.LatLng, error) {
	var body latLngBody
	if err := decodeJSON(r, &body); err != nil {
		return domain.LatLng{}, err
	}
	if body.Latitude == nil || body.Longitude == nil {
		return domain.LatLng{}, errors.New("latitude and longitude are required")
	}
	return domain.LatLng{Latitude: *body.Latitude, Longitude: *body.Longitude}, nil
}

func isTextPlain(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/plain"
}

// readText reads a plain-text body. A body cut off by http.MaxBytesReader
// comes back as *http.MaxBytesError.
func readText(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", errors.New("request body is required")
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", tooLarge
		}
		return "", errors.New("request body could not be read")
	}
	return strings.TrimSpace(string(b)), nil
}

func parseCapabilities(names []string) ([]domain.Capability, error) {
	out := make([]domain.Capability, 0, len(names))
	for _, n := range names {
		c, err := domain.ParseCapability(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func viewToResponse(v session.View) Edit {
	pending := v.Awaiting
	if pending == nil {
		pending = []domain.Capability{}
	}
	return Edit{
		ID:          v.ID,
		RecipeID:    v.Recipe.ID,
		RecipeName:  v.Recipe.Name,
		Ingredients: nonNil(v.Recipe.Ingredients),
		Purchased:   nonNil(v.Purchased),
		Locations:   v.Locations,
		Ready:       v.Ready,
		Pending:     pending,
	}
}
