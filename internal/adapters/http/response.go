package http

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Message string            `json:"message,omitempty"`
	Detail  string            `json:"detail,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeValidationError(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, &Response{
		Message: "validation failed",
		Errors:  errs,
	})
}
