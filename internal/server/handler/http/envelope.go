// Package http provides the HTTP handlers and routing for the
// BillboardWatch API.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// writeEnvelope writes the standard JSON envelope with the given status.
func writeEnvelope(w http.ResponseWriter, status int, env models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// writeError writes a failure envelope with the given message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, models.Envelope{Success: false, Message: message})
}

// writeData writes a success envelope carrying v in the data field.
func writeData(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeEnvelope(w, status, models.Envelope{Success: true, Data: data})
}
