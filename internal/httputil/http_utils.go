package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/djshizzle/DJRequest-App/internal/apperr"
)

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	})
}

// WriteStoreError maps store errors onto HTTP statuses:
// validation 400, not found 404, illegal transition 409, anything else 500.
func WriteStoreError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		WriteError(w, http.StatusBadRequest, ve.Msg)
		return
	}
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		WriteError(w, http.StatusNotFound, nf.Error())
		return
	}
	var it *apperr.InvalidTransitionError
	if errors.As(err, &it) {
		WriteError(w, http.StatusConflict, it.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error())
}
