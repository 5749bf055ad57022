package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rbroggi/matchup/internal/core/model"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

var okResponse = statusResponse{Status: "OK"}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("error encoding response body")
	}
}

// writeError translates err into the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, reason := statusOf(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).
			WithField("path", r.URL.Path).
			WithField("viewer", Viewer(r.Context())).
			Error("request failed")
	}
	writeJSON(w, status, errorResponse{Error: reason})
}

func statusOf(err error) (int, string) {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case model.ErrAuthRequired:
			return http.StatusUnauthorized, domainErr.Reason
		case model.ErrInvalidArgument, model.ErrInvalidAttribute:
			return http.StatusBadRequest, domainErr.Reason
		case model.ErrPermissionDenied:
			return http.StatusForbidden, domainErr.Reason
		case model.ErrPreconditionFailed:
			return http.StatusConflict, domainErr.Reason
		case model.ErrNotFound:
			return http.StatusNotFound, domainErr.Reason
		case model.ErrPartialWrite:
			return http.StatusInternalServerError, domainErr.Reason
		}
	}
	if errors.Is(err, model.ErrNotFound) {
		return http.StatusNotFound, "Not found"
	}
	return http.StatusInternalServerError, "Internal server error"
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return &model.Error{Kind: model.ErrInvalidArgument, Reason: "Invalid request body", Cause: err}
	}
	return nil
}
