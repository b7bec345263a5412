package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/mealmate/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the message because the handler knows what was being
// looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}}
}

// requestBody returns an ErrorResponse for a request rejected before it
// reached the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// conflictBody returns an ErrorResponse for a request that does not fit the
// current purchase state.
func conflictBody(code string, err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: unwrapMessage(err)}}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.RecipeService.Create: validation error: name is required" -> "name is required"
// and "purchase.State.SetPurchased: unknown ingredient: \"Butter\"" -> "unknown ingredient: \"Butter\"".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	for _, sentinel := range []error{domain.ErrUnknownIngredient, domain.ErrNotPurchased, domain.ErrInvalidCoordinateFormat} {
		if i := strings.Index(msg, sentinel.Error()); i >= 0 {
			return msg[i:]
		}
	}
	return msg
}

// writeError maps service errors to HTTP responses. what names the resource
// for 404 messages, e.g. "recipe".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(what+" not found"))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrUnknownIngredient):
		writeJSON(w, http.StatusUnprocessableEntity, conflictBody("unknown_ingredient", err))
	case errors.Is(err, domain.ErrNotPurchased):
		writeJSON(w, http.StatusConflict, conflictBody("not_purchased", err))
	case errors.Is(err, domain.ErrInvalidCoordinateFormat):
		writeJSON(w, http.StatusUnprocessableEntity, conflictBody("invalid_coordinate_format", err))
	case errors.Is(err, domain.ErrDeliveryFailed):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{Code: "delivery_failed", Message: "message delivery failed"}})
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into v. A body cut off by
// http.MaxBytesReader comes back as *http.MaxBytesError.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return errors.New("request body is not valid JSON")
	}
	return nil
}

// writeDecodeError answers a request whose body could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{Code: "request_too_large", Message: err.Error()}})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
}
