package repairs

import (
	"bijouterie_server/api/middleware"
	"bijouterie_server/handling"
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type deleteResponse struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HandleDelete answers {"success": true} or {"error": "..."} with a non-2xx status.
// Storage and persistence failures carry the raw message.
func (rrm *RepairRoutesManager) HandleDelete(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.DeleteRepairRequest](r)
	if err != nil {
		rrm.writeDelete(w, http.StatusBadRequest, deleteResponse{Error: "Requête invalide"})
		return
	}

	raw := strings.TrimSpace(body.Id)
	if raw == "" {
		rrm.writeDelete(w, http.StatusBadRequest, deleteResponse{Error: "ID manquant"})
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		rrm.writeDelete(w, http.StatusBadRequest, deleteResponse{Error: "ID invalide"})
		return
	}

	if err := rrm.repairService.DeleteRepair(r.Context(), middleware.AuthContextFrom(r), id); err != nil {
		rrm.logger.Error("Failed to delete repair", gecho.Field("repair_id", id), gecho.Field("error", err))
		rrm.writeDelete(w, handling.StatusFor(err), deleteResponse{Error: err.Error()})
		return
	}

	rrm.writeDelete(w, http.StatusOK, deleteResponse{Success: true})
}

func (rrm *RepairRoutesManager) writeDelete(w http.ResponseWriter, status int, body deleteResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rrm.logger.Warn("Failed to write delete response", gecho.Field("error", err))
	}
}
