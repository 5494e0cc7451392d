package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/pkg/apperror"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError renders any error as the {"code","message"} shape. Unrecognized
// errors are logged before they collapse into a generic 500.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	appErr := apperror.FromError(err)
	if appErr.Status == http.StatusInternalServerError && logger != nil {
		logger.WithError(err).Error("Request failed")
	}
	writeJSON(w, appErr.Status, appErr)
}

// decodeJSON decodes and validates a request body
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperror.NewBadRequest(err.Error())
	}
	return nil
}
