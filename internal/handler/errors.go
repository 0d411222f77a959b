package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"papermorph/internal/domain"
	"papermorph/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Typed domain errors
// carry their own status code; anything else is an internal error and the
// detail is withheld from the client.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// pathUUID parses the named path value as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Message: "invalid " + name}
	}
	return id, nil
}
