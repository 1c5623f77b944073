package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/middleware"
)

// decodeJSON decodes the request body into dst and validates it.
// Decoding problems become field-level validation errors; a body over the
// size limit becomes a 413.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var (
			maxErr    *http.MaxBytesError
			syntaxErr *json.SyntaxError
			typeErr   *json.UnmarshalTypeError
		)
		switch {
		case errors.As(err, &maxErr):
			return middleware.TooLarge(maxErr.Limit)
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("body", "request body is required")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return domain.NewValidationError("body", "request body is not valid JSON")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return &domain.ValidationError{Issues: []domain.FieldIssue{{
				Path:    strings.Split(typeErr.Field, "."),
				Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type),
			}}}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return domain.NewValidationError(field, field+" is not a recognised field")
		default:
			return domain.NewValidationError("body", "request body could not be decoded")
		}
	}
	if dec.More() {
		return domain.NewValidationError("body", "request body must contain a single JSON object")
	}

	return s.validate.Struct(dst)
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// paginationParams binds the optional page and limit query parameters.
// Defaults: page=1, limit=20, max=100.
func paginationParams(q url.Values) (domain.PaginationParams, error) {
	var page, limit *int
	var issues []domain.FieldIssue
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		issues = append(issues, domain.FieldIssue{Path: []string{"page"}, Message: "page must be an integer"})
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		issues = append(issues, domain.FieldIssue{Path: []string{"limit"}, Message: "limit must be an integer"})
	}
	if len(issues) > 0 {
		return domain.PaginationParams{}, &domain.ValidationError{Issues: issues}
	}
	return domain.NewPaginationParams(page, limit), nil
}
