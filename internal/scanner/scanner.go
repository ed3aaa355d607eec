// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package scanner

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/config"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/models"
)

// Prober performs the discovery handshake against one address.
type Prober interface {
	Probe(ctx context.Context, address string) (models.Device, error)
}

// Scanner probes candidate addresses and streams the peers that answer.
type Scanner struct {
	prober  Prober
	port    int
	limit   int
	subnets []string

	interfaceAddrs func() ([]net.Addr, error)

	// mu is held while a scan is swapped in and while a stopped scan drains,
	// so every Stop caller returns only after the probes are gone.
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	logger *logger.Logger
}

// NewScanner builds a scanner probing through prober.
func NewScanner(cfg config.Scanner, prober Prober, logger *logger.Logger) *Scanner {
	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}

	return &Scanner{
		prober:         prober,
		port:           cfg.Port,
		limit:          limit,
		subnets:        cfg.Subnets,
		interfaceAddrs: net.InterfaceAddrs,
		logger:         logger,
	}
}

// Scan starts probing and returns a channel of discovered devices. The
// channel is closed when every candidate was probed, ctx is done or Stop is
// called. With no hints every host of the local subnets is probed. A scan
// already in progress is stopped first.
func (s *Scanner) Scan(ctx context.Context, hints []string) <-chan models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	out := make(chan models.Device)
	s.cancel = cancel
	s.done = done

	prober := s.prober
	candidates := s.candidates(hints)
	log := s.logger.With().Str("func", "Scanner.Scan").Int("candidates", len(candidates)).Logger()
	log.Info().Bool("hinted", len(hints) > 0).Msg("scan started")

	go func() {
		defer close(done)
		defer close(out)
		defer cancel()

		started := time.Now()
		var found atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.limit)

		for _, candidate := range candidates {
			if gctx.Err() != nil {
				break
			}

			g.Go(func() error {
				device, err := prober.Probe(gctx, candidate)
				if err != nil {
					return nil
				}

				select {
				case out <- device:
					found.Add(1)
				case <-gctx.Done():
				}
				return nil
			})
		}

		_ = g.Wait()

		log.Info().
			Int64("found", found.Load()).
			Dur("elapsed", time.Since(started)).
			Bool("stopped", ctx.Err() != nil).
			Msg("scan finished")
	}()

	return out
}

// Stop cancels the running scan, if any, and waits until its probes have
// returned. It is safe to call more than once.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *Scanner) stopLocked() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

// Probe runs the handshake against a single address given the way a user
// types it. A missing port becomes the configured peer port, as for hints.
func (s *Scanner) Probe(ctx context.Context, address string) (models.Device, error) {
	normalized, err := s.normalizeHint(address)
	if err != nil {
		return models.Device{}, err
	}
	return s.prober.Probe(ctx, normalized)
}

// candidates returns normalised, deduplicated probe addresses in a stable
// order, excluding this host's own endpoint.
func (s *Scanner) candidates(hints []string) []string {
	own := mapset.NewThreadUnsafeSet[string]()
	addrs, err := s.interfaceAddrs()
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "Scanner.candidates").Msg("cannot list interface addresses")
	}
	nets := ipv4Nets(addrs)
	port := strconv.Itoa(s.port)
	for _, n := range nets {
		own.Add(net.JoinHostPort(n.ip.String(), port))
	}
	own.Add(net.JoinHostPort("127.0.0.1", port))
	own.Add(net.JoinHostPort("localhost", port))

	seen := mapset.NewThreadUnsafeSet[string]()
	result := make([]string, 0)
	add := func(address string) {
		if own.Contains(hostPortOf(address)) || !seen.Add(address) {
			return
		}
		result = append(result, address)
	}

	if len(hints) > 0 {
		for _, hint := range hints {
			address, err := s.normalizeHint(hint)
			if err != nil {
				s.logger.Debug().Err(err).Str("hint", hint).Msg("skipping unusable scan hint")
				continue
			}
			add(address)
		}
		return result
	}

	for _, network := range s.networks(nets) {
		for _, ip := range subnetHosts(network) {
			add("http://" + net.JoinHostPort(ip.String(), strconv.Itoa(s.port)))
		}
	}
	return result
}

func (s *Scanner) networks(nets []localNet) []*net.IPNet {
	var result []*net.IPNet
	if len(s.subnets) > 0 {
		for _, cidr := range s.subnets {
			_, network, err := net.ParseCIDR(cidr)
			if err != nil || network.IP.To4() == nil {
				s.logger.Warn().Str("subnet", cidr).Msg("skipping invalid IPv4 subnet")
				continue
			}
			result = append(result, network)
		}
		return result
	}

	for _, n := range nets {
		result = append(result, n.network)
	}
	return result
}

// normalizeHint accepts a URL, host:port or bare host; a missing port
// becomes the configured peer port.
func (s *Scanner) normalizeHint(hint string) (string, error) {
	base, err := adapter.NormalizeAddress(hint)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Port() == "" && s.port > 0 {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(s.port))
	}
	return u.String(), nil
}

func hostPortOf(address string) string {
	u, err := url.Parse(address)
	if err != nil {
		return ""
	}
	return u.Host
}
