package repairs

import (
	"bijouterie_server/api/middleware"
	"bijouterie_server/services"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RepairCommands is the write side of the repair routes.
type RepairCommands interface {
	SubmitRepair(ctx context.Context, auth services.AuthContext, input *structs.RepairInput, editingID *uuid.UUID) (*tables.Repair, error)
	DeleteRepair(ctx context.Context, auth services.AuthContext, id uuid.UUID) error
	NotifyReady(ctx context.Context, auth services.AuthContext, id uuid.UUID) error
}

type RepairRoutesManager struct {
	logger        *gecho.Logger
	repairService RepairCommands
	queryService  *services.RepairQueryService
	cfg           *structs.Config
	mw            *middleware.Middleware
}

func NewRepairRoutesManager(
	logger *gecho.Logger,
	repairService RepairCommands,
	queryService *services.RepairQueryService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *RepairRoutesManager {
	return &RepairRoutesManager{
		logger:        logger,
		repairService: repairService,
		queryService:  queryService,
		cfg:           cfg,
		mw:            mw,
	}
}

func (rrm *RepairRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(rrm.mw.UserAuthMiddleware)

		r.Get("/dashboard", rrm.HandleDashboard)
		r.Get("/statistics", rrm.HandleStatistics)

		r.Route("/repairs", func(r chi.Router) {
			r.Get("/", rrm.HandleListByStatus)
			r.Get("/history", rrm.HandleHistory)
			r.Get("/recent", rrm.HandleRecent)
			r.Get("/export", rrm.HandleExport)
			r.Get("/{id}", rrm.HandleGet)
			r.Get("/{id}/receipt", rrm.HandleReceipt)

			r.Group(func(r chi.Router) {
				r.Use(rrm.mw.CSRFMiddleware())
				r.Post("/", rrm.HandleCreate)
				r.Post("/delete", rrm.HandleDelete)
				r.Put("/{id}", rrm.HandleUpdate)
				r.Post("/{id}/notify-ready", rrm.HandleNotifyReady)
			})
		})
	})
}
