package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the wire representation of the optional JSON config
// file. It mirrors [StructuredConfig] but uses the [Duration] wrapper so
// durations can be written as strings like "1h" or "30s".
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Security struct {
		APIKeyHeader      string   `json:"api_key_header"`
		APIKeyPrefix      string   `json:"api_key_prefix"`
		StaticKeys        []string `json:"static_keys"`
		TrustForwardedFor bool     `json:"trust_forwarded_for"`
	} `json:"security,omitempty"`

	RateLimit struct {
		Disabled          bool     `json:"disabled"`
		RequestsPerMinute int      `json:"requests_per_minute"`
		Burst             int      `json:"burst"`
		BucketTTL         Duration `json:"bucket_ttl"`
		SweepInterval     Duration `json:"sweep_interval"`
	} `json:"rate_limit,omitempty"`

	Idempotency struct {
		ReplayWait    Duration `json:"replay_wait"`
		PollInterval  Duration `json:"poll_interval"`
		Retention     Duration `json:"retention"`
		PurgeInterval Duration `json:"purge_interval"`
	} `json:"idempotency,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Bootstrap struct {
		FilePath string `json:"file"`
	} `json:"bootstrap,omitempty"`
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
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
		},
		Security: Security{
			APIKeyHeader:      jsonCfg.Security.APIKeyHeader,
			APIKeyPrefix:      jsonCfg.Security.APIKeyPrefix,
			StaticKeys:        jsonCfg.Security.StaticKeys,
			TrustForwardedFor: jsonCfg.Security.TrustForwardedFor,
		},
		RateLimit: RateLimit{
			Disabled:          jsonCfg.RateLimit.Disabled,
			RequestsPerMinute: jsonCfg.RateLimit.RequestsPerMinute,
			Burst:             jsonCfg.RateLimit.Burst,
			BucketTTL:         time.Duration(jsonCfg.RateLimit.BucketTTL),
			SweepInterval:     time.Duration(jsonCfg.RateLimit.SweepInterval),
		},
		Idempotency: Idempotency{
			ReplayWait:    time.Duration(jsonCfg.Idempotency.ReplayWait),
			PollInterval:  time.Duration(jsonCfg.Idempotency.PollInterval),
			Retention:     time.Duration(jsonCfg.Idempotency.Retention),
			PurgeInterval: time.Duration(jsonCfg.Idempotency.PurgeInterval),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Bootstrap: Bootstrap{
			FilePath: jsonCfg.Bootstrap.FilePath,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
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
