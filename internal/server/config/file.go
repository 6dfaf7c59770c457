package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/devicekeeper/internal/flagx"
	"github.com/dmitrijs2005/devicekeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for decoding the file given with -c/-config.
// Intervals use timex.Duration so both "5s" and nanoseconds are accepted.
type FileConfig struct {
	EndpointAddrGRPC    string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN         string         `json:"database_dsn" yaml:"database_dsn"`
	Storage             string         `json:"storage" yaml:"storage"`
	DeviceSchema        string         `json:"device_schema" yaml:"device_schema"`
	AuthSchema          string         `json:"auth_schema" yaml:"auth_schema"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
	HealthCheckInterval timex.Duration `json:"health_check_interval" yaml:"health_check_interval"`
}

// parseFile overlays the values present in the config file. Files ending
// in .yaml or .yml are read as YAML, anything else as JSON. Fields missing
// from the file keep their current value. An unreadable or invalid file
// panics.
func parseFile(config *Config) {
	configFile := flagx.JsonConfigFlags()

	// nothing to load
	if configFile == "" {
		return
	}

	file, err := os.ReadFile(configFile)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(file, c)
	default:
		err = json.Unmarshal(file, c)
	}
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.Storage, c.Storage)
	setString(&config.DeviceSchema, c.DeviceSchema)
	setString(&config.AuthSchema, c.AuthSchema)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
