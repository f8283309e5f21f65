package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// statusResponse is the fixed envelope for status and error replies.
type statusResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func success(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, statusResponse{Code: http.StatusOK, Message: "Success"})
}

func badRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, statusResponse{Code: http.StatusBadRequest, Message: "Validation Failed"})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, statusResponse{Code: http.StatusNotFound, Message: "Item Not Found"})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, statusResponse{Code: http.StatusInternalServerError, Message: "Internal Server Error"})
}
