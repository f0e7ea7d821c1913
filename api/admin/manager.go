package admin

import (
	"bijouterie_server/api/middleware"
	"bijouterie_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger      *gecho.Logger
	userService *services.UserService
	mw          *middleware.Middleware
}

func NewAdminRoutesManager(logger *gecho.Logger, userService *services.UserService, mw *middleware.Middleware) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:      logger,
		userService: userService,
		mw:          mw,
	}
}

func (arm *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(arm.mw.UserAuthMiddleware)
		r.Use(arm.mw.AdminAuthMiddleware)

		r.Get("/users", arm.HandleListUsers)

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.CSRFMiddleware())
			r.Post("/users", arm.HandleCreateUser)
			r.Put("/users/{id}", arm.HandleUpdateUser)
			r.Delete("/users/{id}", arm.HandleDeleteUser)
		})
	})
}
