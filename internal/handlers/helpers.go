package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// maxBodyBytes bounds request bodies decoded by DecodeJSON
const maxBodyBytes = 1 << 20

// errorBody is the shape of every non-2xx JSON response
type errorBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// RequireMethod writes a 405 and returns false unless r uses method
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// WriteJSON encodes data as the response body with the given status
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes {"status":"error","error":message}
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, errorBody{Status: "error", Error: message})
}

// WriteStarted answers 202 for work that completes in the background
func WriteStarted(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusAccepted, data)
}

// DecodeJSON fills out from the request body, answering 400 when it cannot
func DecodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := decoder.Decode(out)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	return false
}
