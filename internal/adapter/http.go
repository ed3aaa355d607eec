package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/config"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/utils"
	"github.com/MKhiriev/go-lan-sync/models"
)

const (
	actionPath   = "/action"
	identityPath = "/device"
	userAgent    = "go-lan-sync"
)

type httpPeerAdapter struct {
	client *utils.HTTPClient

	syncTimeout  time.Duration
	probeTimeout time.Duration
	now          func() time.Time

	logger *logger.Logger
}

// NewHTTPPeerAdapter constructs the HTTP/form implementation of [PeerAdapter].
func NewHTTPPeerAdapter(cfg config.Adapter, logger *logger.Logger) PeerAdapter {
	return &httpPeerAdapter{
		client:       utils.NewHTTPClient(userAgent),
		syncTimeout:  cfg.RequestTimeout,
		probeTimeout: cfg.ProbeTimeout,
		now:          time.Now,
		logger:       logger,
	}
}

// NormalizeAddress turns a bare host, host:port or URL into the base URL form
// used as device identity ("http://host:port", no trailing slash).
func NormalizeAddress(raw string) (string, error) {
	base, err := normalizeBaseURL(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return base, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Send implements [PeerAdapter]. It POSTs the form fields device, config and
// targets to <address>/action?do=sync&mode=N&type=history, adding force=true
// for forced syncs.
func (h *httpPeerAdapter) Send(ctx context.Context, target models.Device, req models.SyncRequest) models.SyncOutcome {
	log := h.logger.With().Str("func", "httpPeerAdapter.Send").Str("address", target.Address).Logger()

	base, err := normalizeBaseURL(target.Address)
	if err != nil {
		return models.Failed(models.OutcomeUnreachable, fmt.Sprintf("%v: %v", ErrInvalidAddress, err))
	}

	targets, err := json.Marshal(nonNilEntries(req.Targets))
	if err != nil {
		return models.Failed(models.OutcomeRejected, fmt.Sprintf("encode history: %v", err))
	}

	query := map[string]string{
		"do":   "sync",
		"mode": strconv.Itoa(int(req.Mode)),
		"type": "history",
	}
	if req.Force {
		query["force"] = "true"
	}

	ctx, cancel := context.WithTimeout(ctx, h.syncTimeout)
	defer cancel()

	started := h.now()
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetFormData(map[string]string{
			"device":  string(req.Identity),
			"config":  string(req.Config),
			"targets": string(targets),
		}).
		Post(base + actionPath)
	if err != nil {
		outcome := transportOutcome(ctx, err)
		log.Warn().Err(err).Str("outcome", outcome.Kind.String()).Msg("sync request failed")
		return outcome
	}

	log.Debug().
		Int("status", resp.StatusCode()).
		Dur("elapsed", h.now().Sub(started)).
		Msg("sync response received")

	if err = mapHTTPError(resp); err != nil {
		return models.Failed(models.OutcomeRejected, err.Error())
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return models.Succeeded(models.SyncResponse{})
	}

	var decoded models.SyncResponse
	if err = json.Unmarshal(body, &decoded); err != nil {
		log.Warn().Err(err).Msg("peer answered with an undecodable body")
		return models.Failed(models.OutcomeMalformedResponse, fmt.Sprintf("malformed response: %v", err))
	}
	if decoded.Length == 0 {
		decoded.Length = len(decoded.Targets)
	}

	return models.Succeeded(decoded)
}

// Probe implements [PeerAdapter]. It GETs <address>/device and expects the
// peer's identity JSON. The returned device carries the probed address,
// which is the address this instance can actually reach.
func (h *httpPeerAdapter) Probe(ctx context.Context, address string) (models.Device, error) {
	base, err := normalizeBaseURL(address)
	if err != nil {
		return models.Device{}, fmt.Errorf("%w: %w", ErrNotAPeer, err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
	defer cancel()

	var identity models.Identity
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&identity).
		Get(base + identityPath)
	if err != nil {
		return models.Device{}, fmt.Errorf("%w: %w", ErrNotAPeer, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Device{}, fmt.Errorf("%w: %w", ErrNotAPeer, err)
	}
	if identity.ID == "" {
		return models.Device{}, fmt.Errorf("%w: identity without id", ErrNotAPeer)
	}

	device := identity.Device(h.now())
	device.Address = base
	if device.Name == "" {
		device.Name = base
	}

	return device, nil
}

func nonNilEntries(entries []models.HistoryEntry) []models.HistoryEntry {
	if entries == nil {
		return []models.HistoryEntry{}
	}
	return entries
}
