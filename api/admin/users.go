package admin

import (
	"bijouterie_server/api/middleware"
	"bijouterie_server/handling"
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AdminRoutesManager) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := arm.userService.List(r.Context(), middleware.AuthContextFrom(r))
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(users), gecho.Send())
}

func (arm *AdminRoutesManager) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateUserRequest](r)
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	user, err := arm.userService.Create(r.Context(), middleware.AuthContextFrom(r), body)
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Utilisateur créé"), gecho.WithData(user), gecho.Send())
}

func (arm *AdminRoutesManager) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateUserRequest](r)
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	user, err := arm.userService.Update(r.Context(), middleware.AuthContextFrom(r), id, body)
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Utilisateur mis à jour"), gecho.WithData(user), gecho.Send())
}

func (arm *AdminRoutesManager) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	if err := arm.userService.Delete(r.Context(), middleware.AuthContextFrom(r), id); err != nil {
		handling.RespondError(w, arm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Utilisateur supprimé"), gecho.Send())
}
