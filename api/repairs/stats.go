package repairs

import (
	"bijouterie_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (rrm *RepairRoutesManager) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := rrm.queryService.DashboardStats(r.Context())
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(stats), gecho.Send())
}

func (rrm *RepairRoutesManager) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := rrm.queryService.Statistics(r.Context())
	if err != nil {
		handling.RespondError(w, rrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithData(stats), gecho.Send())
}
