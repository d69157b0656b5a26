package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hrnova/ui-api/internal/errors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrorParams{
		Code:    http.StatusConflict,
		ErrCode: "conflict",
		Err:     apperrors.Conflict("email already in use"),
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "conflict", body["error"])
	assert.Equal(t, "email already in use", body["message"])
}

func TestWriteAppError_Mapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFound("employee not found"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict, "conflict"},
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest, "validation_failed"},
		{"unauthorized", apperrors.Unauthorized("nope"), http.StatusForbidden, "forbidden"},
		{"internal", assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAppError(rec, tc.err)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeEnvelope(t, rec)["error"])
		})
	}
}

func TestWriteAppError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, apperrors.Internal("pgx: connection refused"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, body["message"], "pgx")
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","bogus":1}`))
	rec := httptest.NewRecorder()

	ok := DecodeJSON(rec, req, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeEnvelope(t, rec)["error"])
}

func TestDecodeJSON_Valid(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	rec := httptest.NewRecorder()

	require.True(t, DecodeJSON(rec, req, &dst))
	assert.Equal(t, "a", dst.Name)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}
