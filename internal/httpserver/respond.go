package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tradejournal/internal/model"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *model.ValidationError
		terr *model.TransportError
	)
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, model.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, model.ErrTradeClosed):
		s.writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &terr):
		s.logger.Error("Upstream call failed", "path", r.URL.Path, "op", terr.Op, "error", terr.Err)
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: terr.Op + " is unavailable"})
	default:
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decodeJSON reads a single JSON document. Malformed bodies are validation errors.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return &model.ValidationError{Field: "body", Reason: "is empty"}
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return &model.ValidationError{Field: typeErr.Field, Reason: "has the wrong type"}
		default:
			return &model.ValidationError{Field: "body", Reason: err.Error()}
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &model.ValidationError{Field: "body", Reason: "must contain a single JSON document"}
	}
	return nil
}
