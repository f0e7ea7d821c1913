package notifications

import (
	"bijouterie_server/services"
	"bijouterie_server/structs"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func newRoutes(t *testing.T, ready bool) *NotificationRoutesManager {
	t.Helper()

	bridge := http.NewServeMux()
	bridge.HandleFunc("POST /send", func(w http.ResponseWriter, r *http.Request) {
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "WhatsApp client not ready"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	bridge.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"ready": ready})
	})
	srv := httptest.NewServer(bridge)
	t.Cleanup(srv.Close)

	logger := gecho.NewDefaultLogger()
	ws := services.NewWhatsAppService(logger, &structs.Config{
		WhatsApp: &structs.WhatsAppConfig{BridgeURL: srv.URL, Timeout: 2 * time.Second, CountryCode: "212"},
	})
	return &NotificationRoutesManager{logger: logger, whatsAppService: ws}
}

func send(nrm *NotificationRoutesManager, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/notifications/whatsapp", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	nrm.HandleSend(rec, req)
	return rec
}

func TestHandleSend(t *testing.T) {
	rec := send(newRoutes(t, true), `{"telephone": "06 12 34 56 78", "message": "Bonjour"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(newRoutes(t, true), `{"telephone": "", "message": "Bonjour"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSend_BridgeNotReady(t *testing.T) {
	rec := send(newRoutes(t, false), `{"telephone": "0612345678", "message": "Bonjour"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "WhatsApp client not ready")
}

func TestHandleBridgeHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRoutes(t, false).HandleBridgeHealth(rec, httptest.NewRequest(http.MethodGet, "/notifications/whatsapp/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `"ready":\s*false`, rec.Body.String())
}
