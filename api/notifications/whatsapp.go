package notifications

import (
	"bijouterie_server/handling"
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleSend is the manual send action. Unlike lifecycle notifications it reports the bridge result.
func (nrm *NotificationRoutesManager) HandleSend(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.WhatsAppRequest](r)
	if err != nil {
		handling.RespondError(w, nrm.logger, err)
		return
	}

	if err := nrm.whatsAppService.Send(r.Context(), body.Telephone, body.Message); err != nil {
		nrm.logger.Warn("Manual WhatsApp send failed", gecho.Field("error", err))
		handling.RespondError(w, nrm.logger, err)
		return
	}

	gecho.Success(w, gecho.WithMessage("Message envoyé"), gecho.Send())
}

func (nrm *NotificationRoutesManager) HandleBridgeHealth(w http.ResponseWriter, r *http.Request) {
	ready, err := nrm.whatsAppService.Health(r.Context())
	if err != nil {
		nrm.logger.Warn("WhatsApp bridge health check failed", gecho.Field("error", err))
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("Passerelle WhatsApp injoignable"),
			gecho.WithData(map[string]bool{"ready": false}),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]bool{"ready": ready}), gecho.Send())
}
