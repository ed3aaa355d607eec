package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// subnetList collects repeated -subnet flags.
type subnetList []string

func (s *subnetList) String() string {
	return strings.Join(*s, ",")
}

func (s *subnetList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, _, err := net.ParseCIDR(part); err != nil {
			return fmt.Errorf("invalid subnet %q: %w", part, err)
		}
		*s = append(*s, part)
	}
	return nil
}

// ParseFlags parses all configuration flags from os.Args.
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

// parseFlags parses args on a fresh flag set.
//
// Flags:
//
//	-a peer endpoint listen address in format [host]:[port]
//	-advertise address peers use to reach this device
//	-d database DSN (sqlite file path)
//	-c/-config json file path with configs
//	-name device name
//	-type device type
//	-headless run without the terminal UI
//	-log-file log file path
//	-request-timeout inbound request timeout (e.g., "30s")
//	-sync-timeout outbound sync call timeout (e.g., "10s")
//	-probe-timeout discovery probe timeout (e.g., "1s")
//	-scan-concurrency maximum probes in flight
//	-scan-port peer port probed during a scan
//	-subnet IPv4 CIDR to scan, repeatable
//	-mode initial sync mode (bidirectional, upload, download)
//	-auto-sync initial auto sync switch
//	-interval initial sync interval in minutes
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-lan-sync", flag.ContinueOnError)

	var serverAddress NetAddress
	var advertiseAddress string
	var databaseDSN string
	var jsonConfigPath string
	var deviceName, deviceType string
	var headless bool
	var logFile string
	var requestTimeout, syncTimeout, probeTimeout time.Duration
	var scanConcurrency, scanPort int
	var subnets subnetList
	var mode string
	var autoSync string
	var interval int

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&advertiseAddress, "advertise", "", "Address peers use to reach this device")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&deviceName, "name", "", "Device name")
	fs.StringVar(&deviceType, "type", "", "Device type")
	fs.BoolVar(&headless, "headless", false, "Run without the terminal UI")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Inbound request timeout (e.g., 30s)")
	fs.DurationVar(&syncTimeout, "sync-timeout", 0, "Outbound sync timeout (e.g., 10s)")
	fs.DurationVar(&probeTimeout, "probe-timeout", 0, "Discovery probe timeout (e.g., 1s)")
	fs.IntVar(&scanConcurrency, "scan-concurrency", 0, "Maximum probes in flight")
	fs.IntVar(&scanPort, "scan-port", 0, "Peer port probed during a scan")
	fs.Var(&subnets, "subnet", "IPv4 CIDR to scan (repeatable)")
	fs.StringVar(&mode, "mode", "", "Initial sync mode: bidirectional, upload, download")
	fs.StringVar(&autoSync, "auto-sync", "", "Initial auto sync switch (true/false)")
	fs.IntVar(&interval, "interval", 0, "Initial sync interval in minutes")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DeviceName: deviceName,
			DeviceType: deviceType,
			Headless:   headless,
			LogFile:    logFile,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:      serverAddress.String(),
			AdvertiseAddress: advertiseAddress,
			RequestTimeout:   requestTimeout,
		},
		Adapter: Adapter{
			RequestTimeout: syncTimeout,
			ProbeTimeout:   probeTimeout,
		},
		Scanner: Scanner{
			Concurrency: scanConcurrency,
			Port:        scanPort,
			Subnets:     subnets,
		},
		Sync: Sync{
			Mode:            mode,
			IntervalMinutes: interval,
		},
		JSONFilePath: jsonConfigPath,
	}

	if autoSync != "" {
		v, err := strconv.ParseBool(autoSync)
		if err != nil {
			return nil, fmt.Errorf("invalid -auto-sync value %q: %w", autoSync, err)
		}
		cfg.Sync.AutoSync = &v
	}

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
