package handling

import (
	"bijouterie_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError logs an unexpected failure and answers 500 with a generic message.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.Send())
}

// RespondError maps an error kind to its status code. Store and blob failures
// are answered with the raw underlying message so the operator can act on it.
func RespondError(w http.ResponseWriter, logger *gecho.Logger, err error) {
	var ve *lib.ValidationError
	switch {
	case errors.As(err, &ve):
		gecho.BadRequest(w, gecho.WithMessage(ve.Error()), gecho.WithData(ve.Errors), gecho.Send())
	case errors.Is(err, lib.ErrValidation):
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrAuth), errors.Is(err, lib.ErrInvalidToken), errors.Is(err, lib.ErrExpiredToken):
		gecho.Unauthorized(w, gecho.WithMessage("Session invalide, veuillez vous reconnecter"), gecho.Send())
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Identifiant ou mot de passe incorrect"), gecho.Send())
	case errors.Is(err, lib.ErrForbidden):
		gecho.Forbidden(w, gecho.WithMessage("Accès refusé"), gecho.Send())
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage("Introuvable"), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("Cet identifiant ou cet email est déjà utilisé"), gecho.Send())
	case errors.Is(err, lib.ErrUnavailable):
		gecho.ServiceUnavailable(w, gecho.WithMessage(err.Error()), gecho.Send())
	default:
		logger.Error("Request failed", gecho.Field("error", err), gecho.WithCallerSkip(3))
		gecho.InternalServerError(w, gecho.WithMessage(err.Error()), gecho.Send())
	}
}

// StatusFor is the status code RespondError answers with for err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, lib.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, lib.ErrAuth), errors.Is(err, lib.ErrInvalidToken),
		errors.Is(err, lib.ErrExpiredToken), errors.Is(err, lib.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, lib.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, lib.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lib.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, lib.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
