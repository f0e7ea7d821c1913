package repairs

import (
	"bijouterie_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (rrm *RepairRoutesManager) HandleListByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := handling.ParseStatusFilter(r)
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	summaries, err := rrm.queryService.ListByStatus(r.Context(), status)
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(summaries), gecho.Send())
}

func (rrm *RepairRoutesManager) HandleHistory(w http.ResponseWriter, r *http.Request) {
	summaries, err := rrm.queryService.History(r.Context())
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(summaries), gecho.Send())
}

func (rrm *RepairRoutesManager) HandleRecent(w http.ResponseWriter, r *http.Request) {
	summaries, err := rrm.queryService.Recent(r.Context())
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(summaries), gecho.Send())
}

// HandleGet returns the full aggregate used to prefill the edit form.
func (rrm *RepairRoutesManager) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	detail, err := rrm.queryService.GetForEdit(r.Context(), id)
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(detail), gecho.Send())
}
