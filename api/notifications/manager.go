package notifications

import (
	"bijouterie_server/api/middleware"
	"bijouterie_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type NotificationRoutesManager struct {
	logger          *gecho.Logger
	whatsAppService *services.WhatsAppService
	mw              *middleware.Middleware
}

func NewNotificationRoutesManager(logger *gecho.Logger, whatsAppService *services.WhatsAppService, mw *middleware.Middleware) *NotificationRoutesManager {
	return &NotificationRoutesManager{
		logger:          logger,
		whatsAppService: whatsAppService,
		mw:              mw,
	}
}

func (nrm *NotificationRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/notifications/whatsapp", func(r chi.Router) {
		r.Use(nrm.mw.UserAuthMiddleware)
		r.Get("/health", nrm.HandleBridgeHealth)

		r.Group(func(r chi.Router) {
			r.Use(nrm.mw.CSRFMiddleware())
			r.Post("/", nrm.HandleSend)
		})
	})
}
