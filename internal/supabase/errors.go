package supabase

import "fmt"

// CodePermissionDenied is the Postgres error code PostgREST returns
// when a row-level security policy rejects the statement.
const CodePermissionDenied = "42501"

// APIError is a structured error returned by PostgREST or GoTrue. The
// fields mirror the provider's error body and are passed through to
// API clients verbatim for debuggability.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`

	// Status is the HTTP status the provider answered with.
	Status int `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (code %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("supabase: %s", e.Message)
}

// PermissionDenied reports whether the provider rejected the statement
// on an RLS policy, which the gateway maps to 403 instead of 400.
func (e *APIError) PermissionDenied() bool {
	return e.Code == CodePermissionDenied
}

// errorBody covers the error shapes of both collaborators: PostgREST
// uses message/code/details/hint, GoTrue uses msg or error_description.
type errorBody struct {
	Message          string `json:"message"`
	Code             any    `json:"code"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	ErrorField       string `json:"error"`
}

func (b errorBody) message() string {
	for _, candidate := range []string{b.Message, b.Msg, b.ErrorDescription, b.ErrorField} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func (b errorBody) code() string {
	switch value := b.Code.(type) {
	case string:
		return value
	case float64:
		// GoTrue reports numeric HTTP-style codes; keep them readable.
		return fmt.Sprintf("%.0f", value)
	default:
		return ""
	}
}
