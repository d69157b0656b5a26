package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/hrnova/ui-api/internal/errors"
)

// ErrorParams bundles the inputs for WriteError.
type ErrorParams struct {
	Code    int    // HTTP status code
	ErrCode string // machine-readable error identifier
	Err     error  // human-readable detail, rendered via Error()
}

// WriteError writes a JSON error envelope with the given status code.
// The envelope shape is {"error": <code>, "message": <detail>}.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.Code)

	msg := ""
	if p.Err != nil {
		msg = p.Err.Error()
	}
	//nolint:errcheck // nothing sensible to do if the client is gone
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   p.ErrCode,
		"message": msg,
	})
}

// WriteAppError maps an application error onto the HTTP error envelope.
// Unrecognized errors are reported as a generic internal failure so repo and
// driver details never reach the client.
func WriteAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		status, code = http.StatusNotFound, "not_found"
	case apperrors.ErrCodeConflict:
		status, code = http.StatusConflict, "conflict"
	case apperrors.ErrCodeValidation:
		status, code = http.StatusBadRequest, "validation_failed"
	case apperrors.ErrCodeForeignKey:
		status, code = http.StatusBadRequest, "invalid_reference"
	case apperrors.ErrCodeUnauthorized:
		status, code = http.StatusForbidden, "forbidden"
	case apperrors.ErrCodeInternal, apperrors.ErrCodeTimeout, apperrors.ErrCodeCanceled:
		err = errors.New("internal server error")
	default:
		err = errors.New("internal server error")
	}

	WriteError(w, ErrorParams{Code: status, ErrCode: code, Err: err})
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// On failure it writes a 400 response and returns false; callers should
// return immediately when it does.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     err,
		})
		return false
	}
	return true
}

// WriteJSON encodes v to a buffer first so an encoding failure can still
// produce a clean 500 instead of a half-written body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "encoding_failed",
			Err:     errors.New("failed to encode response"),
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client disconnects are not actionable here
	_, _ = w.Write(buf.Bytes())
}
