package auth

import (
	"bijouterie_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	accessToken, err := lib.GetCookieValue(lib.AccessCookieName, r)
	if err != nil {
		gecho.Success(w, gecho.WithMessage("Aucune session active"), gecho.Send())
		return
	}

	// always drop the cookie, even when the token is already unusable
	lib.ClearCookie(lib.AccessCookieName, w)

	claims, err := arm.authService.Authenticate(accessToken)
	if err != nil {
		arm.logger.Debug("Logout with an unusable token", gecho.Field("error", err))
		gecho.Success(w, gecho.WithMessage("Déconnecté"), gecho.Send())
		return
	}

	if err := arm.authService.Logout(claims); err != nil {
		gecho.InternalServerError(w, gecho.WithMessage("Échec de la déconnexion"), gecho.Send())
		return
	}

	gecho.Success(w, gecho.WithMessage("Déconnecté"), gecho.Send())
}
