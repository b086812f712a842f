package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// serverError writes the uniform opaque 500. Detail goes to the log only.
func serverError(w http.ResponseWriter) {
	http.Error(w, "Server Error", http.StatusInternalServerError)
}
