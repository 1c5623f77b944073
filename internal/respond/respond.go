// Package respond turns any failure into the API's error envelope.
//
// It is the single place where failures are classified (via apperr.Classify),
// logged and written to the client. Handlers pass raw errors through
// unchanged and call Write once.
package respond

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ecocycle/recycle-api/internal/apperr"
	"github.com/ecocycle/recycle-api/internal/workflow"
)

// timestampLayout is ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// partialMessage replaces the classified message for partial workflow failures.
const partialMessage = "request partially applied: a later step failed after earlier changes were saved; manual reconciliation required"

// Envelope is the JSON body of every failed request.
// ErrorID is set if and only if StatusCode is 5xx.
type Envelope struct {
	StatusCode int            `json:"statusCode"`
	Timestamp  string         `json:"timestamp"`
	Path       string         `json:"path"`
	Message    any            `json:"message"`
	Details    map[string]any `json:"details"`
	ErrorID    string         `json:"errorId,omitempty"`
}

// Recorder counts classified failures.
type Recorder interface {
	ObserveError(kind string, status int)
}

// Responder builds envelopes and emits one log record per failure.
type Responder struct {
	log   *slog.Logger
	now   func() time.Time
	newID func() string
	rec   Recorder
}

// Option customises a Responder.
type Option func(*Responder)

// WithClock replaces the wall clock used for envelope timestamps.
func WithClock(now func() time.Time) Option { return func(r *Responder) { r.now = now } }

// WithIDGenerator replaces the correlation id generator.
func WithIDGenerator(gen func() string) Option { return func(r *Responder) { r.newID = gen } }

// WithRecorder attaches a failure counter.
func WithRecorder(rec Recorder) Option { return func(r *Responder) { r.rec = rec } }

// New constructs a Responder logging to log.
func New(log *slog.Logger, opts ...Option) *Responder {
	r := &Responder{
		log:   log,
		now:   time.Now,
		newID: apperr.NewCorrelationID,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Respond classifies err and returns the envelope for a request to path.
//
// Unexpected failures get a fresh correlation id, which is logged at error
// level next to the original error text; the text itself never reaches the
// envelope. Every other kind is logged at info level, or warn level when a
// workflow left committed changes behind.
func (r *Responder) Respond(ctx context.Context, err error, path string) Envelope {
	c := apperr.Classify(err)
	server := c.Status >= http.StatusInternalServerError

	env := Envelope{
		StatusCode: c.Status,
		Timestamp:  r.now().UTC().Format(timestampLayout),
		Path:       path,
		Message:    c.Message,
		Details:    maps.Clone(c.Details),
	}

	if !server {
		// Payload never overrides classifier details or the step name.
		for k, v := range c.Payload {
			if _, taken := env.Details[k]; !taken {
				env.Details = with(env.Details, k, v)
			}
		}
		if c.Step != "" {
			env.Details = with(env.Details, "step", c.Step)
		}
	}

	if c.Partial {
		env.Message = partialMessage
		env.Details = with(env.Details, "step", c.Step)
		env.Details = with(env.Details, "outcome", workflow.OutcomePartial)
		env.Details = with(env.Details, "reconciliation", string(workflow.CompensationManual))
		env.Details = with(env.Details, "committed", committedRefs(c.Pending))
	}

	if server {
		env.ErrorID = r.newID()
	}

	r.logFailure(ctx, err, c, env)
	if r.rec != nil {
		r.rec.ObserveError(string(c.Kind), c.Status)
	}
	return env
}

// Write responds to req with the envelope for err.
func (r *Responder) Write(w http.ResponseWriter, req *http.Request, err error) {
	env := r.Respond(req.Context(), err, req.URL.Path)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	if encErr := json.NewEncoder(w).Encode(env); encErr != nil {
		r.log.ErrorContext(req.Context(), "write error envelope", "error", encErr)
	}
}

func (r *Responder) logFailure(ctx context.Context, err error, c apperr.Classification, env Envelope) {
	attrs := []any{
		"kind", string(c.Kind),
		"status", c.Status,
		"path", env.Path,
		"request_id", chimiddleware.GetReqID(ctx),
	}
	if c.Step != "" {
		attrs = append(attrs, "step", c.Step, "partial", c.Partial)
	}

	switch {
	case c.Kind == apperr.KindUnexpected:
		attrs = append(attrs, "error_id", env.ErrorID, "error", err.Error())
		r.log.ErrorContext(ctx, "unexpected failure", attrs...)
	case c.Partial:
		attrs = append(attrs, "error", err.Error())
		r.log.WarnContext(ctx, "partial workflow failure", attrs...)
	default:
		r.log.InfoContext(ctx, "request failed", attrs...)
	}
}

func with(m map[string]any, k string, v any) map[string]any {
	if m == nil {
		m = map[string]any{}
	}
	m[k] = v
	return m
}

// committedRefs lists the committed effects awaiting reconciliation.
func committedRefs(pending []workflow.Committed) []map[string]string {
	out := make([]map[string]string, 0, len(pending))
	for _, p := range pending {
		out = append(out, map[string]string{"step": p.Step, "ref": p.Ref})
	}
	return out
}
