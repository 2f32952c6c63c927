// Package handlers implements the JSON API consumed by the merchant
// dashboard and the public storefront runtime.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxJSONBody caps request bodies on JSON endpoints. Block settings are
// the largest payloads and stay well under this.
const maxJSONBody = 1 << 20

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondSuccess writes the {"success": true} body used by delete endpoints.
func respondSuccess(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeJSON reads a size-limited JSON request body into dst. The returned
// error message is safe to echo back to the client.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("malformed JSON body")
	}

	// Reject trailing garbage after the JSON document.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON document")
	}

	return nil
}
