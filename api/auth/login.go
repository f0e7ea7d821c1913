package auth

import (
	"bijouterie_server/handling"
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Identifiant et mot de passe requis"), gecho.Send())
		return
	}

	user, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		arm.logger.Warn("Login failed", gecho.Field("error", err))
		handling.RespondError(w, arm.logger, err)
		return
	}

	accessToken, exp, err := arm.authService.GenerateAccessToken(user)
	if err != nil {
		handling.HandleError(err, "generate access token", arm.logger, w)
		return
	}

	lib.SetCookie(lib.AccessCookieName, accessToken, exp, w)

	gecho.Success(w,
		gecho.WithMessage("Connexion réussie"),
		gecho.WithData(user),
		gecho.Send(),
	)
}

// HandleResolveUsername returns the email behind a username, for the login form.
func (arm *AuthRoutesManager) HandleResolveUsername(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ResolveUsernameRequest](r)
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	email, err := arm.authService.ResolveUsername(r.Context(), body.Username)
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]string{"email": email}),
		gecho.Send(),
	)
}
