package scanner

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-lan-sync/internal/config"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/models"
)

var errNoPeer = errors.New("no peer")

// spyProber answers for the addresses in peers and records every probe.
type spyProber struct {
	peers map[string]string
	delay time.Duration
	block bool
	// release delays the return of a blocked probe after cancellation.
	release time.Duration

	mu       sync.Mutex
	probed   []string
	inFlight atomic.Int64
	maxSeen  atomic.Int64
}

func (p *spyProber) Probe(ctx context.Context, address string) (models.Device, error) {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		m := p.maxSeen.Load()
		if n <= m || p.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	p.mu.Lock()
	p.probed = append(p.probed, address)
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		time.Sleep(p.release)
		return models.Device{}, ctx.Err()
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return models.Device{}, ctx.Err()
		}
	}

	name, ok := p.peers[address]
	if !ok {
		return models.Device{}, errNoPeer
	}
	return models.Device{Address: address, Name: name, LastSeen: time.Now()}, nil
}

func (p *spyProber) probedAddresses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.probed...)
}

func newTestScanner(prober Prober, cfg config.Scanner, own ...string) *Scanner {
	s := NewScanner(cfg, prober, logger.Nop())
	s.interfaceAddrs = func() ([]net.Addr, error) {
		addrs := make([]net.Addr, 0, len(own))
		for _, cidr := range own {
			ip, network, _ := net.ParseCIDR(cidr)
			addrs = append(addrs, &net.IPNet{IP: ip, Mask: network.Mask})
		}
		return addrs, nil
	}
	return s
}

func collect(t *testing.T, ch <-chan models.Device) []models.Device {
	t.Helper()
	var devices []models.Device
	timeout := time.After(5 * time.Second)
	for {
		select {
		case d, ok := <-ch:
			if !ok {
				return devices
			}
			devices = append(devices, d)
		case <-timeout:
			t.Fatal("scan did not finish")
			return nil
		}
	}
}

func TestScan_Hints_StreamsPeers(t *testing.T) {
	prober := &spyProber{peers: map[string]string{
		"http://10.0.0.2:9978": "tv",
		"http://10.0.0.3:9978": "tablet",
	}}
	s := newTestScanner(prober, config.Scanner{Concurrency: 4, Port: 9978})

	devices := collect(t, s.Scan(context.Background(), []string{
		"http://10.0.0.2:9978", "10.0.0.3", "10.0.0.4:9978",
	}))

	require.Len(t, devices, 2)
	names := []string{devices[0].Name, devices[1].Name}
	assert.ElementsMatch(t, []string{"tv", "tablet"}, names)
	assert.Len(t, prober.probedAddresses(), 3)
}

func TestScan_Hints_DeduplicatedAndSelfExcluded(t *testing.T) {
	prober := &spyProber{}
	s := newTestScanner(prober, config.Scanner{Concurrency: 2, Port: 9978}, "192.168.1.20/24")

	collect(t, s.Scan(context.Background(), []string{
		"192.168.1.5", "http://192.168.1.5:9978/", "192.168.1.20:9978", "192.168.1.20:9000", "",
	}))

	assert.ElementsMatch(t, []string{"http://192.168.1.5:9978", "http://192.168.1.20:9000"}, prober.probedAddresses())
}

func TestScan_NoHints_ProbesLocalSubnet(t *testing.T) {
	prober := &spyProber{peers: map[string]string{"http://10.1.1.2:9978": "peer"}}
	s := newTestScanner(prober, config.Scanner{Concurrency: 8, Port: 9978}, "10.1.1.1/30")

	devices := collect(t, s.Scan(context.Background(), nil))

	require.Len(t, devices, 1)
	assert.Equal(t, "peer", devices[0].Name)
	// /30 has hosts .1 and .2; .1 is us.
	assert.Equal(t, []string{"http://10.1.1.2:9978"}, prober.probedAddresses())
}

func TestScan_ConfiguredSubnetsOverrideInterfaces(t *testing.T) {
	prober := &spyProber{}
	s := newTestScanner(prober, config.Scanner{Concurrency: 8, Port: 9978, Subnets: []string{"172.16.0.0/30"}}, "10.1.1.1/24")

	collect(t, s.Scan(context.Background(), nil))

	assert.ElementsMatch(t, []string{"http://172.16.0.1:9978", "http://172.16.0.2:9978"}, prober.probedAddresses())
}

func TestScan_RespectsConcurrencyLimit(t *testing.T) {
	prober := &spyProber{delay: 10 * time.Millisecond}
	s := newTestScanner(prober, config.Scanner{Concurrency: 3, Port: 9978, Subnets: []string{"10.2.0.0/27"}})

	collect(t, s.Scan(context.Background(), nil))

	assert.Len(t, prober.probedAddresses(), 30)
	assert.LessOrEqual(t, prober.maxSeen.Load(), int64(3))
}

func TestScan_StopCancelsProbes(t *testing.T) {
	prober := &spyProber{block: true}
	s := newTestScanner(prober, config.Scanner{Concurrency: 4, Port: 9978, Subnets: []string{"10.3.0.0/24"}})

	ch := s.Scan(context.Background(), nil)

	require.Eventually(t, func() bool { return prober.inFlight.Load() == 4 }, time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	assert.Empty(t, collect(t, ch))
	assert.Zero(t, prober.inFlight.Load())

	// Idempotent.
	s.Stop()
}

func TestScan_StopWhileConsumerIsNotReading(t *testing.T) {
	prober := &spyProber{peers: map[string]string{
		"http://10.0.0.2:9978": "a",
		"http://10.0.0.3:9978": "b",
	}}
	s := newTestScanner(prober, config.Scanner{Concurrency: 2, Port: 9978})

	ch := s.Scan(context.Background(), []string{"10.0.0.2", "10.0.0.3"})
	first := <-ch
	assert.NotEmpty(t, first.Name)

	// The second result may be pending on the channel; Stop must not hang.
	s.Stop()
	collect(t, ch)
}

func TestScan_NewScanStopsPrevious(t *testing.T) {
	blocking := &spyProber{block: true}
	s := newTestScanner(blocking, config.Scanner{Concurrency: 2, Port: 9978, Subnets: []string{"10.4.0.0/24"}})

	first := s.Scan(context.Background(), nil)
	require.Eventually(t, func() bool { return blocking.inFlight.Load() > 0 }, time.Second, time.Millisecond)

	s.prober = &spyProber{peers: map[string]string{"http://10.0.0.9:9978": "next"}}
	second := s.Scan(context.Background(), []string{"10.0.0.9"})

	assert.Empty(t, collect(t, first))
	devices := collect(t, second)
	require.Len(t, devices, 1)
	assert.Equal(t, "next", devices[0].Name)
}

func TestScan_ParentContextCancel(t *testing.T) {
	prober := &spyProber{block: true}
	s := newTestScanner(prober, config.Scanner{Concurrency: 1, Port: 9978, Subnets: []string{"10.5.0.0/24"}})

	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Scan(ctx, nil)
	cancel()

	assert.Empty(t, collect(t, ch))
}

func TestScan_ConcurrentStopWaitsForProbes(t *testing.T) {
	prober := &spyProber{block: true, release: 100 * time.Millisecond}
	s := newTestScanner(prober, config.Scanner{Concurrency: 2, Port: 9978, Subnets: []string{"10.6.0.0/24"}})

	ch := s.Scan(context.Background(), nil)
	require.Eventually(t, func() bool { return prober.inFlight.Load() == 2 }, time.Second, time.Millisecond)

	var wg sync.WaitGroup
	inFlightAtReturn := make([]int64, 3)
	for i := range inFlightAtReturn {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Stop()
			inFlightAtReturn[i] = prober.inFlight.Load()
		}()
	}
	wg.Wait()

	for i, n := range inFlightAtReturn {
		assert.Zero(t, n, "Stop #%d returned with probes in flight", i)
	}
	assert.Empty(t, collect(t, ch))
}

func TestScan_ConcurrentScansAreAllStopped(t *testing.T) {
	prober := &spyProber{block: true, release: 20 * time.Millisecond}
	s := newTestScanner(prober, config.Scanner{Concurrency: 2, Port: 9978, Subnets: []string{"10.7.0.0/24"}})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Scan(context.Background(), nil)
		}()
	}
	wg.Wait()

	s.Stop()
	assert.Zero(t, prober.inFlight.Load())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, prober.inFlight.Load())
}

func TestScanner_SingleAddressGetsPeerPort(t *testing.T) {
	prober := &spyProber{peers: map[string]string{"http://10.0.0.2:9978": "tv"}}
	s := newTestScanner(prober, config.Scanner{Concurrency: 1, Port: 9978})

	device, err := s.Probe(context.Background(), " 10.0.0.2 ")
	require.NoError(t, err)
	assert.Equal(t, "tv", device.Name)

	_, err = s.Probe(context.Background(), "10.0.0.2:9000")
	require.ErrorIs(t, err, errNoPeer)

	_, err = s.Probe(context.Background(), "")
	require.Error(t, err)

	assert.Equal(t, []string{"http://10.0.0.2:9978", "http://10.0.0.2:9000"}, prober.probedAddresses())
}
