package services

import (
	"bijouterie_server/database"
	"bijouterie_server/lib"
	"bijouterie_server/repositories"
	"bijouterie_server/storage"
	"bijouterie_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService        *AuthService
	UserService        *UserService
	EmailService       *EmailService
	CacheService       *CacheService
	HealthService      *HealthService
	WhatsAppService    *WhatsAppService
	RepairService      *RepairService
	RepairQueryService *RepairQueryService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, blobs storage.Store) *ServiceManager {
	repos := repositories.New(db, lib.NewFieldCipher(cfg.Encryption.Key))

	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	whatsAppService := NewWhatsAppService(logger, cfg)

	return &ServiceManager{
		AuthService:     NewAuthService(cfg, logger, repos.Users, cacheService),
		UserService:     NewUserService(logger, repos.Users, cacheService, emailService),
		EmailService:    emailService,
		CacheService:    cacheService,
		HealthService:   NewHealthService(logger, db, cacheService),
		WhatsAppService: whatsAppService,
		RepairService: NewRepairService(logger, cfg.Server.ShopName,
			repos.Clients, repos.Repairs, repos.Items, repos.Photos,
			blobs, whatsAppService, cacheService),
		RepairQueryService: NewRepairQueryService(logger, cfg.Server.ShopName,
			repos.Repairs, repos.Clients, repos.Items, repos.Photos, cacheService),
	}
}
