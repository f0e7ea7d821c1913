package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/prometheus/client_golang/prometheus"
)

// NotificationDispatches counts bridge send attempts by outcome. Registered with the /metrics handler.
var NotificationDispatches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bijouterie",
		Subsystem: "notifications",
		Name:      "dispatch_total",
		Help:      "WhatsApp dispatch attempts by outcome",
	},
	[]string{"outcome"},
)

type bridgeError struct {
	Error string `json:"error"`
}

type bridgeHealth struct {
	Ready bool `json:"ready"`
}

// WhatsAppService forwards messages to the self-hosted WhatsApp bridge. One HTTP call per
// message, no retry and no queue.
type WhatsAppService struct {
	logger      *gecho.Logger
	client      *http.Client
	baseURL     string
	countryCode string
}

func NewWhatsAppService(logger *gecho.Logger, cfg *structs.Config) *WhatsAppService {
	timeout := cfg.WhatsApp.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WhatsAppService{
		logger:      logger,
		client:      &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.WhatsApp.BridgeURL, "/"),
		countryCode: cfg.WhatsApp.CountryCode,
	}
}

// Send validates and normalizes the destination, then posts it to the bridge.
func (ws *WhatsAppService) Send(ctx context.Context, phone, message string) error {
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(message) == "" {
		NotificationDispatches.WithLabelValues("invalid").Inc()
		return (&lib.ValidationError{}).Add("telephone", "and message are required")
	}

	telephone := lib.NormalizePhone(phone, ws.countryCode)
	if telephone == "" {
		NotificationDispatches.WithLabelValues("invalid").Inc()
		return (&lib.ValidationError{}).Add("telephone", "contains no digits")
	}

	body, err := json.Marshal(structs.WhatsAppRequest{Telephone: telephone, Message: message})
	if err != nil {
		return lib.Dispatch(lib.ErrDispatch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ws.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return lib.Dispatch(lib.ErrDispatch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ws.client.Do(req)
	if err != nil {
		NotificationDispatches.WithLabelValues("failed").Inc()
		return lib.Dispatch(lib.ErrDispatch, fmt.Errorf("bridge unreachable: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		NotificationDispatches.WithLabelValues("sent").Inc()
		ws.logger.Debug("WhatsApp message sent", gecho.Field("telephone", telephone))
		return nil
	}

	cause := errors.New(bridgeErrorMessage(resp))
	if resp.StatusCode == http.StatusServiceUnavailable {
		NotificationDispatches.WithLabelValues("unavailable").Inc()
		return lib.Dispatch(lib.ErrUnavailable, cause)
	}

	NotificationDispatches.WithLabelValues("failed").Inc()
	return lib.Dispatch(lib.ErrDispatch, cause)
}

// Health reports whether the bridge has a paired WhatsApp session.
func (ws *WhatsAppService) Health(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ws.baseURL+"/health", nil)
	if err != nil {
		return false, err
	}

	resp, err := ws.client.Do(req)
	if err != nil {
		return false, lib.Dispatch(lib.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var health bridgeHealth
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false, lib.Dispatch(lib.ErrUnavailable, fmt.Errorf("decode bridge health: %w", err))
	}
	return health.Ready, nil
}

func bridgeErrorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var be bridgeError
	if err := json.Unmarshal(raw, &be); err == nil && be.Error != "" {
		return be.Error
	}
	return fmt.Sprintf("bridge responded %d", resp.StatusCode)
}
