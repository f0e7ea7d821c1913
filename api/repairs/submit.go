package repairs

import (
	"bijouterie_server/api/middleware"
	"bijouterie_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func (rrm *RepairRoutesManager) HandleCreate(w http.ResponseWriter, r *http.Request) {
	rrm.submit(w, r, nil)
}

func (rrm *RepairRoutesManager) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}
	rrm.submit(w, r, &id)
}

func (rrm *RepairRoutesManager) submit(w http.ResponseWriter, r *http.Request, editingID *uuid.UUID) {
	r.Body = http.MaxBytesReader(w, r.Body, rrm.cfg.Server.MaxUploadBytes)

	input, cleanup, err := handling.ParseRepairForm(r, 8<<20)
	defer cleanup()
	if err != nil {
		rrm.logger.Debug("Rejected repair form", gecho.Field("error", err))
		handling.RespondError(w, rrm.logger, err)
		return
	}

	repair, err := rrm.repairService.SubmitRepair(r.Context(), middleware.AuthContextFrom(r), input, editingID)
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	message := "Réparation mise à jour"
	if editingID == nil {
		message = "Réparation enregistrée"
	}
	gecho.Success(w, gecho.WithMessage(message), gecho.WithData(repair), gecho.Send())
}

func (rrm *RepairRoutesManager) HandleNotifyReady(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	if err := rrm.repairService.NotifyReady(r.Context(), middleware.AuthContextFrom(r), id); err != nil {
		rrm.logger.Warn("Ready notification failed", gecho.Field("repair_id", id), gecho.Field("error", err))
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Message envoyé"), gecho.Send())
}
