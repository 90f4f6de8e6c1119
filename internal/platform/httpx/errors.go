package httpx

import (
	"errors"
	"net/http"

	"github.com/quillpress/dashboard/internal/shared"
)

// ErrValidation marks request payloads that failed validation.
var ErrValidation = errors.New("validation failed")

// RespondError maps domain errors to the JSON error contract. Unknown errors
// become a 500 carrying fallback as message.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, "Conflict")
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		ServerError(w, fallback)
	}
}
