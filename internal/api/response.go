// Package api serves the inventory endpoints of the development stub server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Error("error encoding response", zap.Error(err))
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

// serverError logs err with the request it failed and answers 500 with
// message. The cause never reaches the client.
func serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if id := r.Header.Get("X-Request-ID"); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	zap.L().Error(message, fields...)
	jsonError(w, http.StatusInternalServerError, message)
}

// decodeJSON decodes a single JSON object from the request body into target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}
