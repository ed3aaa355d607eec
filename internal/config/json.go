package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON field names and
// string durations.
type StructuredJSONConfig struct {
	App struct {
		DeviceName string `json:"device_name"`
		DeviceType string `json:"device_type"`
		Headless   bool   `json:"headless"`
		LogFile    string `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress      string   `json:"http_address"`
		AdvertiseAddress string   `json:"advertise_address"`
		RequestTimeout   Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		RequestTimeout Duration `json:"request_timeout"`
		ProbeTimeout   Duration `json:"probe_timeout"`
	} `json:"adapter,omitempty"`

	Scanner struct {
		Concurrency int      `json:"concurrency"`
		Port        int      `json:"port"`
		Subnets     []string `json:"subnets"`
	} `json:"scanner,omitempty"`

	Sync struct {
		Mode            string `json:"mode"`
		AutoSync        *bool  `json:"auto_sync"`
		IntervalMinutes int    `json:"interval_minutes"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DeviceName: jsonCfg.App.DeviceName,
			DeviceType: jsonCfg.App.DeviceType,
			Headless:   jsonCfg.App.Headless,
			LogFile:    jsonCfg.App.LogFile,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:      jsonCfg.Server.HTTPAddress,
			AdvertiseAddress: jsonCfg.Server.AdvertiseAddress,
			RequestTimeout:   time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			ProbeTimeout:   time.Duration(jsonCfg.Adapter.ProbeTimeout),
		},
		Scanner: Scanner{
			Concurrency: jsonCfg.Scanner.Concurrency,
			Port:        jsonCfg.Scanner.Port,
			Subnets:     jsonCfg.Scanner.Subnets,
		},
		Sync: Sync{
			Mode:            jsonCfg.Sync.Mode,
			AutoSync:        jsonCfg.Sync.AutoSync,
			IntervalMinutes: jsonCfg.Sync.IntervalMinutes,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
