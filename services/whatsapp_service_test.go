package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	ready    bool
	status   int
	received []structs.WhatsAppRequest
}

func (b *fakeBridge) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /send", func(w http.ResponseWriter, r *http.Request) {
		var req structs.WhatsAppRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.received = append(b.received, req)

		w.Header().Set("Content-Type", "application/json")
		if !b.ready {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "WhatsApp client not ready"})
			return
		}
		if b.status != 0 {
			w.WriteHeader(b.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "send failed"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"ready": b.ready})
	})
	return mux
}

func newWhatsApp(t *testing.T, bridge *fakeBridge) *WhatsAppService {
	srv := httptest.NewServer(bridge.handler())
	t.Cleanup(srv.Close)

	return NewWhatsAppService(testLogger(), &structs.Config{
		WhatsApp: &structs.WhatsAppConfig{BridgeURL: srv.URL + "/", Timeout: 2 * time.Second, CountryCode: "212"},
	})
}

func TestWhatsAppSend_NormalizesPhone(t *testing.T) {
	bridge := &fakeBridge{ready: true}
	ws := newWhatsApp(t, bridge)
	ctx := context.Background()

	require.NoError(t, ws.Send(ctx, "06 12-34-56-78", "Bonjour"))
	require.NoError(t, ws.Send(ctx, "00212612345678", "Bonjour"))

	require.Len(t, bridge.received, 2)
	assert.Equal(t, "212612345678", bridge.received[0].Telephone)
	assert.Equal(t, "212612345678", bridge.received[1].Telephone)
	assert.Equal(t, "Bonjour", bridge.received[0].Message)
}

func TestWhatsAppSend_ValidationMakesNoCall(t *testing.T) {
	bridge := &fakeBridge{ready: true}
	ws := newWhatsApp(t, bridge)
	ctx := context.Background()

	assert.ErrorIs(t, ws.Send(ctx, "", "Bonjour"), lib.ErrValidation)
	assert.ErrorIs(t, ws.Send(ctx, "0612345678", "  "), lib.ErrValidation)
	assert.ErrorIs(t, ws.Send(ctx, "pas de numéro", "Bonjour"), lib.ErrValidation)
	assert.Empty(t, bridge.received)
}

func TestWhatsAppSend_BridgeErrors(t *testing.T) {
	ctx := context.Background()

	notReady := newWhatsApp(t, &fakeBridge{ready: false})
	err := notReady.Send(ctx, "0612345678", "Bonjour")
	require.ErrorIs(t, err, lib.ErrUnavailable)
	assert.Equal(t, "WhatsApp client not ready", err.Error())

	failing := newWhatsApp(t, &fakeBridge{ready: true, status: http.StatusInternalServerError})
	err = failing.Send(ctx, "0612345678", "Bonjour")
	require.ErrorIs(t, err, lib.ErrDispatch)
	assert.NotErrorIs(t, err, lib.ErrUnavailable)
}

func TestWhatsAppSend_Unreachable(t *testing.T) {
	ws := NewWhatsAppService(testLogger(), &structs.Config{
		WhatsApp: &structs.WhatsAppConfig{BridgeURL: "http://127.0.0.1:1", Timeout: time.Second, CountryCode: "212"},
	})

	err := ws.Send(context.Background(), "0612345678", "Bonjour")
	assert.ErrorIs(t, err, lib.ErrDispatch)
}

func TestWhatsAppHealth(t *testing.T) {
	ready, err := newWhatsApp(t, &fakeBridge{ready: true}).Health(context.Background())
	require.NoError(t, err)
	assert.True(t, ready)

	ready, err = newWhatsApp(t, &fakeBridge{ready: false}).Health(context.Background())
	require.NoError(t, err)
	assert.False(t, ready)
}
