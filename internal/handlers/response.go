package handlers

import (
	"encoding/json"
	"net/http"
)

// Response bodies. Errors never carry internal detail.
type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgMessageRequired  = "Message is required"
	msgPersonaNotFound  = "Persona not found"
	msgSomethingWrong   = "Something went wrong"
	msgInvalidDate      = "Invalid date, expected YYYY-MM-DD"
	maxRequestBodyBytes = 1 << 20
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
