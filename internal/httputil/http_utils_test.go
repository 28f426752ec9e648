package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/djshizzle/DJRequest-App/internal/apperr"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "r1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"r1"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusForbidden, "DJ mode required")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"DJ mode required"}`, rec.Body.String())
}

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperr.Validationf("name is required"), http.StatusBadRequest},
		{"not found", apperr.NotFound("request", "r1"), http.StatusNotFound},
		{"invalid transition", &apperr.InvalidTransitionError{From: "pending", To: "played"}, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteStoreError(rec, tt.err)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
