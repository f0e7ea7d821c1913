package api

import (
	"bijouterie_server/api/admin"
	"bijouterie_server/api/auth"
	"bijouterie_server/api/debug"
	"bijouterie_server/api/health"
	"bijouterie_server/api/middleware"
	"bijouterie_server/api/notifications"
	"bijouterie_server/api/repairs"
	"bijouterie_server/services"
	"bijouterie_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	healthRoutes       *health.HealthRoutesManager
	authRoutes         *auth.AuthRoutesManager
	repairRoutes       *repairs.RepairRoutesManager
	notificationRoutes *notifications.NotificationRoutesManager
	adminRoutes        *admin.AdminRoutesManager
	debugRoutes        *debug.DebugRoutesManager
}

func NewRouterManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		healthRoutes:       health.NewHealthRoutesManager(logger, sm.HealthService),
		authRoutes:         auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
		repairRoutes:       repairs.NewRepairRoutesManager(logger, sm.RepairService, sm.RepairQueryService, cfg, mw),
		notificationRoutes: notifications.NewNotificationRoutesManager(logger, sm.WhatsAppService, mw),
		adminRoutes:        admin.NewAdminRoutesManager(logger, sm.UserService, mw),
		debugRoutes:        debug.NewDebugRoutesManager(logger, sm.CacheService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.repairRoutes.RegisterRoutes(r)
	rm.notificationRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
