package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type msgResponse struct {
	Msg string `json:"msg"`
}

// errorItem mirrors one entry of an {"errors":[...]} body. Param and Location are only
// set for field validation failures.
type errorItem struct {
	Param    string `json:"param,omitempty"`
	Msg      string `json:"msg"`
	Location string `json:"location,omitempty"`
}

type errorsResponse struct {
	Errors []errorItem `json:"errors"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

func writeMsg(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, msgResponse{Msg: msg}, status)
}

func writeErrors(w http.ResponseWriter, status int, items ...errorItem) {
	writeJSON(w, errorsResponse{Errors: items}, status)
}

// serverError logs err against the request and answers a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("err", err),
	)
	writeMsg(w, "Server Error", http.StatusInternalServerError)
}
