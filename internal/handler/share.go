package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/service"
)

// StartShareRequest is the body of POST /shares.
type StartShareRequest struct {
	RecipeIDs    []uuid.UUID `json:"recipe_ids"`
	Destination  string      `json:"destination"`
	Capabilities []string    `json:"capabilities"`
}

// ShareBatch is the composed message for one recipe.
type ShareBatch struct {
	RecipeID   uuid.UUID `json:"recipe_id"`
	RecipeName string    `json:"recipe_name"`
	Segments   []string  `json:"segments"`
}

// Share is the JSON representation of a share request.
type Share struct {
	ID          uuid.UUID    `json:"id"`
	Status      string       `json:"status"`
	Destination string       `json:"destination"`
	Recipes     []ShareBatch `json:"recipes"`
}

// StartShare handles POST /shares.
// Responds 200 once delivered, or 202 while waiting for send_message.
func (s *Server) StartShare(w http.ResponseWriter, r *http.Request) {
	var body StartShareRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	granted, err := parseCapabilities(body.Capabilities)
	if err != nil {
		s.writeError(w, r, "capability", err)
		return
	}

	res, err := s.shares.Start(r.Context(), body.RecipeIDs, body.Destination, granted)
	if err != nil {
		s.writeError(w, r, "recipe", err)
		return
	}

	status := http.StatusOK
	if res.Status == service.ShareAwaiting {
		status = http.StatusAccepted
	}
	writeJSON(w, status, shareToResponse(res))
}

// GrantShare handles POST /shares/{sid}/grants.
func (s *Server) GrantShare(w http.ResponseWriter, r *http.Request) {
	sid, err := pathUUID(r, "sid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var body GrantRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := s.shares.Grant(r.Context(), sid, body.Granted)
	if err != nil {
		s.writeError(w, r, "share", err)
		return
	}
	writeJSON(w, http.StatusOK, shareToResponse(res))
}

func shareToResponse(res service.ShareResult) Share {
	out := Share{
		ID:          res.ID,
		Status:      string(res.Status),
		Destination: res.Destination,
		Recipes:     make([]ShareBatch, 0, len(res.Batches)),
	}
	for _, b := range res.Batches {
		out.Recipes = append(out.Recipes, ShareBatch{
			RecipeID:   b.Recipe.ID,
			RecipeName: b.Recipe.Name,
			Segments:   b.Segments,
		})
	}
	return out
}
