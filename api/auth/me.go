package auth

import (
	"bijouterie_server/api/middleware"
	"bijouterie_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	user, err := arm.authService.GetUserByID(r.Context(), claims.Sub)
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}
