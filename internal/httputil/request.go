package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is capped at 10MB so oversized export payloads get a proper 413
// instead of exhausting memory.
//
// DisallowUnknownFields is intentionally not used: export option payloads
// evolve with the frontend, and unknown keys are validated downstream by the
// domain validators rather than rejected at decode time.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
