package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/app"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/utils"
	"github.com/MKhiriev/go-lan-sync/models"
)

const (
	actionSync  = "sync"
	actionPair  = "pair"
	historyType = "history"
)

type pairResponse struct {
	Device models.Device `json:"device"`
	Result string        `json:"result"`
}

func (h *Handler) getDevice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	identity, err := h.services.PeerService.Identity(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.getDevice").Msg("error reading local identity")
		http.Error(w, app.MsgIdentityUnavailable, statusFromError(err))
		return
	}

	utils.WriteJSON(w, identity, http.StatusOK)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request) {
	switch do := r.URL.Query().Get("do"); do {
	case actionSync:
		h.applySync(w, r)
	case actionPair:
		h.pair(w, r)
	default:
		logger.FromRequest(r).Warn().Str("func", "*Handler.action").Str("do", do).Msg("unknown action")
		http.Error(w, app.MsgUnknownAction, http.StatusBadRequest)
	}
}

func (h *Handler) applySync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	in, err := decodeIncomingSync(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.applySync").Msg("invalid sync request")
		http.Error(w, app.MsgInvalidSyncRequest+": "+err.Error(), statusFromError(err))
		return
	}

	response, err := h.services.PeerService.Apply(ctx, in)
	if err != nil {
		log.Err(err).Str("func", "*Handler.applySync").Str("sender", in.Sender.ID).Msg("error applying sync request")
		http.Error(w, applyErrorMessage(err), statusFromError(err))
		return
	}

	if in.Sender.Address != "" {
		h.services.Scheduler.Discovered(in.Sender.Device(time.Now()))
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) pair(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	address := strings.TrimSpace(r.FormValue("address"))
	if address == "" {
		log.Error().Str("func", "*Handler.pair").Msg("no address was given")
		http.Error(w, app.MsgNoAddressProvided, http.StatusBadRequest)
		return
	}

	device, result, err := h.services.Scheduler.Pair(r.Context(), address)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pair").Str("address", address).Msg("pairing failed")
		http.Error(w, app.MsgPairingFailed+": "+err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, pairResponse{Device: device, Result: result.String()}, http.StatusAccepted)
}

// decodeIncomingSync reads the query (mode, type, force) and the form fields
// (device, config, targets) of a sync request.
func decodeIncomingSync(r *http.Request) (models.IncomingSync, error) {
	query := r.URL.Query()

	if t := query.Get("type"); t != "" && t != historyType {
		return models.IncomingSync{}, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}

	mode, err := models.ParseSyncMode(query.Get("mode"))
	if err != nil {
		return models.IncomingSync{}, fmt.Errorf("%w: %w", ErrInvalidMode, err)
	}

	if err = r.ParseForm(); err != nil {
		return models.IncomingSync{}, fmt.Errorf("%w: %w", ErrInvalidFormField, err)
	}

	in := models.IncomingSync{
		Mode:  mode,
		Force: query.Get("force") == "true",
	}
	if err = decodeFormJSON(r, "device", &in.Sender, true); err != nil {
		return models.IncomingSync{}, err
	}
	if err = decodeFormJSON(r, "config", &in.Config, false); err != nil {
		return models.IncomingSync{}, err
	}
	in.HasConfig = r.PostForm.Get("config") != ""
	if err = decodeFormJSON(r, "targets", &in.Targets, false); err != nil {
		return models.IncomingSync{}, err
	}

	return in, nil
}

func decodeFormJSON(r *http.Request, field string, dst any, required bool) error {
	raw := r.PostForm.Get(field)
	if raw == "" {
		if required {
			return fmt.Errorf("%w: %s", ErrMissingFormField, field)
		}
		return nil
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidFormField, field, err)
	}

	return nil
}
