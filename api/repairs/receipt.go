package repairs

import (
	"bijouterie_server/handling"
	"fmt"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (rrm *RepairRoutesManager) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	receipt, err := rrm.queryService.Receipt(r.Context(), id)
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(receipt), gecho.Send())
}

// HandleExport streams the repair history as an xlsx workbook.
func (rrm *RepairRoutesManager) HandleExport(w http.ResponseWriter, r *http.Request) {
	workbook, err := rrm.queryService.ExportHistory(r.Context())
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	fileName := fmt.Sprintf("historique-%s.xlsx", time.Now().Format(time.DateOnly))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(workbook); err != nil {
		rrm.logger.Warn("Failed to write export", gecho.Field("error", err))
	}
}
