package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Timestamp string `json:"timestamp"`
}

func WriteData(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, Envelope{Error: message, ErrorCode: code})
}

func stamp(env Envelope) Envelope {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return env
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	env = stamp(env)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
