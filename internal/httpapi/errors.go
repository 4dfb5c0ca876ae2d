package httpapi

import (
	"errors"
	"net/http"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/logger"
	"github.com/eleven-am/taskboard/internal/store"
)

// respondError converts any error into the envelope. Operational errors
// (apperr taxonomy) surface verbatim; store constraint errors translate to
// the taxonomy; anything else is logged and returned as a generic 500.
func respondError(w http.ResponseWriter, err error) {
	if appErr := apperr.As(err); appErr != nil {
		writeJSON(w, appErr.Status, envelope{Success: false, Error: appErr})
		return
	}

	if translated := translateStoreError(err); translated != nil {
		writeJSON(w, translated.Status, envelope{Success: false, Error: translated})
		return
	}

	logger.HTTP().Error("unhandled error: %v", err)
	internal := &apperr.Error{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: "Internal Server Error",
	}
	writeJSON(w, internal.Status, envelope{Success: false, Error: internal})
}

// translateStoreError maps storage failures onto the operational taxonomy:
// unique violation to Conflict, missing row to NotFound, FK violation to
// BadRequest. Other store errors stay internal.
func translateStoreError(err error) *apperr.Error {
	switch {
	case errors.Is(err, store.ErrDuplicateKey):
		return apperr.Conflict("A record with this value already exists")
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("Record not found")
	case errors.Is(err, store.ErrForeignKey):
		return apperr.BadRequest("Related record not found")
	}
	return nil
}
