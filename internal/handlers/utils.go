package handlers

import (
	"encoding/json"
	"net/http"

	"reaper-cleaner/internal/logging"
)

// writeJSON encodes v as JSON to the response writer, logging any encoding errors.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}
