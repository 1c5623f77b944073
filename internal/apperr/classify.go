package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/workflow"
)

// UnexpectedMessage is the only message ever shown for an Unexpected failure.
const UnexpectedMessage = "Internal server error"

// Postgres SQLSTATE codes for integrity-constraint violations (class 23).
const (
	pgClassIntegrity       = "23"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	genericDatabaseMessage = "database error occurred"
)

// Issue is one entry of a validation message.
type Issue struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

// ValidationMessage is the structured message of a ValidationFailed envelope.
type ValidationMessage struct {
	Errors []Issue `json:"errors"`
}

// Classification is the outcome of Classify.
type Classification struct {
	Kind   Kind
	Status int

	// Message is either a string or a ValidationMessage.
	Message any

	// Details is client-safe and may be nil.
	Details map[string]any

	// Payload carries the extra fields of a deliberately raised *Error.
	// The responder only exposes it on non-5xx responses.
	Payload map[string]any

	// Step is the workflow step that failed, empty outside workflows.
	Step string

	// Partial is set when the failing workflow left committed effects
	// behind; Pending lists them.
	Partial bool
	Pending []workflow.Committed
}

// Classify maps err to its Kind, status, public message and details.
// The first matching rule wins:
//
//  1. request or business validation failures
//  2. storage failures: constraint violations and missing records
//  3. errors raised with an explicit status below 500
//  4. everything else, as Unexpected
//
// A *workflow.StepError is looked through; its step name and partial state
// are copied onto the result.
func Classify(err error) Classification {
	c := classify(err)

	var serr *workflow.StepError
	if errors.As(err, &serr) {
		c.Step = serr.Step
		c.Partial = serr.Partial()
		c.Pending = serr.Pending()
	}
	return c
}

func classify(err error) Classification {
	if issues, ok := validationIssues(err); ok {
		return validationFailed(issues)
	}
	if c, ok := storageFailure(err); ok {
		return c
	}
	var explicit *Error
	if errors.As(err, &explicit) && explicit.Status >= 400 && explicit.Status < 500 {
		return Classification{
			Kind:    kindForStatus(explicit.Status),
			Status:  explicit.Status,
			Message: explicit.Message,
			Payload: explicit.Payload,
		}
	}
	return Classification{
		Kind:    KindUnexpected,
		Status:  KindUnexpected.Status(),
		Message: UnexpectedMessage,
	}
}

// --- validation -------------------------------------------------------------

// validationIssues extracts field issues from the validation failure shapes
// the service knows about.
func validationIssues(err error) ([]domain.FieldIssue, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Issues, true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		issues := make([]domain.FieldIssue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issues = append(issues, domain.FieldIssue{
				Path:    fieldPath(fe.Namespace()),
				Message: fieldMessage(fe),
			})
		}
		return issues, true
	}

	if errors.Is(err, domain.ErrValidation) {
		msg := err.Error()
		if i := strings.LastIndex(msg, domain.ErrValidation.Error()+": "); i >= 0 {
			msg = msg[i+len(domain.ErrValidation.Error())+2:]
		}
		return []domain.FieldIssue{{Path: []string{"body"}, Message: msg}}, true
	}
	return nil, false
}

func validationFailed(issues []domain.FieldIssue) Classification {
	msg := ValidationMessage{Errors: make([]Issue, 0, len(issues))}
	details := make(map[string]any, len(issues))
	for _, is := range issues {
		path := is.Path
		if len(path) == 0 {
			path = []string{"body"}
		}
		msg.Errors = append(msg.Errors, Issue{Message: is.Message, Path: path})

		key := strings.Join(path, ".")
		if prev, ok := details[key]; ok {
			details[key] = prev.(string) + "; " + is.Message
			continue
		}
		details[key] = is.Message
	}
	return Classification{
		Kind:    KindValidationFailed,
		Status:  KindValidationFailed.Status(),
		Message: msg,
		Details: details,
	}
}

// fieldPath drops the root struct name from a validator namespace,
// e.g. "createAuditRequest.reportId" -> ["reportId"].
func fieldPath(namespace string) []string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return parts
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
	}
}

// --- storage ----------------------------------------------------------------

func storageFailure(err error) (Classification, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, pgClassIntegrity) {
		return constraintFailure(pgErr), true
	}

	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		msg := "resource not found"
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			msg = nf.Error()
		}
		return Classification{Kind: KindNotFound, Status: KindNotFound.Status(), Message: msg}, true
	}
	return Classification{}, false
}

func constraintFailure(pgErr *pgconn.PgError) Classification {
	fields := constraintFields(pgErr)
	switch pgErr.Code {
	case pgUniqueViolation:
		return Classification{
			Kind:    KindConflict,
			Status:  http.StatusConflict,
			Message: "unique constraint failed on fields: " + strings.Join(fields, ", "),
			Details: map[string]any{"fields": fields},
		}
	case pgForeignKeyViolation:
		return Classification{
			Kind:    KindForeignKeyViolation,
			Status:  KindForeignKeyViolation.Status(),
			Message: "foreign key constraint failed on field: " + strings.Join(fields, ", "),
			Details: map[string]any{"fields": fields},
		}
	default:
		return Classification{
			Kind:    KindConflict,
			Status:  http.StatusBadRequest,
			Message: genericDatabaseMessage,
		}
	}
}

// constraintFields names the columns involved in a constraint violation.
// Postgres reports them in the error detail as "Key (a, b)=(...)"; the
// column and constraint names are fallbacks when the detail is absent.
func constraintFields(pgErr *pgconn.PgError) []string {
	var cols []string
	if rest, ok := strings.CutPrefix(pgErr.Detail, "Key ("); ok {
		if list, _, found := strings.Cut(rest, ")="); found {
			for _, col := range strings.Split(list, ",") {
				if col = strings.TrimSpace(col); col != "" {
					cols = append(cols, col)
				}
			}
		}
	}
	if len(cols) == 0 && pgErr.ColumnName != "" {
		cols = []string{pgErr.ColumnName}
	}
	if len(cols) == 0 && pgErr.ConstraintName != "" {
		cols = []string{pgErr.ConstraintName}
	}

	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = camelCase(c)
	}
	return out
}

// camelCase converts a snake_case column name to the API's field name.
func camelCase(col string) string {
	parts := strings.Split(col, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
