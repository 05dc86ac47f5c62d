// Package respond writes the {success, data, message, error} envelope the
// frontend expects on every /api/* response.
package respond

import (
	"encoding/json"
	"net/http"
)

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// JSONMessage sends data plus an advisory message (e.g. the no_data sentinel).
func JSONMessage(w http.ResponseWriter, status int, data any, msg string) {
	write(w, status, Envelope{Success: true, Data: data, Message: msg})
}

func Message(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: true, Message: msg})
}

func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg})
}

// ErrorData sends a failure envelope that still carries a well-formed data
// payload so clients never have to nil-check.
func ErrorData(w http.ResponseWriter, status int, data any, msg string) {
	write(w, status, Envelope{Success: false, Data: data, Error: msg})
}
