package commands

import (
	"agrafa/internal/afa"
	"agrafa/internal/components/chrono"
	"agrafa/internal/components/configutil"
	"agrafa/internal/components/telemetry"
	"agrafa/internal/walker"
	"os"
	"time"

	"dario.cat/mergo"
)

type Config struct {
	BaseUrl string `json:"base_url"`
	// 0 falls back to the client default, requests always carry a timeout
	TimeoutSeconds int `json:"timeout_seconds"`
	// nil means unset, 0 disables rate limiting
	RequestsPerSecond *float64 `json:"requests_per_second"`
	UserAgent         string   `json:"user_agent"`

	FromYear int `json:"from_year"`
	ToYear   int `json:"to_year"`

	Otlp telemetry.OtlpConfig `json:"otlp"`
}

var clock chrono.API = chrono.NewStandardImpl()

func defaultConfig() Config {
	return Config{
		BaseUrl:           afa.DefaultBaseUrl,
		TimeoutSeconds:    30,
		RequestsPerSecond: ptr(2.0),
		FromYear:          walker.DefaultFromYear,
		ToYear:            chrono.LastCompleteROCYear(clock),
	}
}

// LoadConfig reads the config at path, or the nearest agrafa.json5 when path is
// empty. Missing files are not an error, values left unset keep their defaults.
func LoadConfig(path string) (Config, error) {
	var read Config
	var err error
	if path == "" {
		read, err = configutil.ReadRecursively[Config]("agrafa.json5")
	} else {
		read, err = configutil.ReadConfig[Config](path)
	}
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	// fills the fields left unset with their defaults, pointers that were set
	// are kept even when they point to a zero value
	err = mergo.Merge(&read, defaultConfig(), mergo.WithoutDereference)
	if err != nil {
		return Config{}, err
	}
	return read, nil
}

func (c Config) clientOptions() afa.Options {
	opts := afa.Options{
		BaseUrl:   c.BaseUrl,
		Timeout:   time.Duration(c.TimeoutSeconds) * time.Second,
		UserAgent: c.UserAgent,
	}
	if c.RequestsPerSecond != nil {
		opts.RequestsPerSecond = *c.RequestsPerSecond
	}
	return opts
}

func ptr[T any](value T) *T {
	return &value
}
