package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/benmeehan/fleetops/pkg/file"
)

// Environment variables that override values from the configuration file.
const (
	EnvAPIURL            = "FLEETOPS_API_URL"
	EnvSessionFile       = "FLEETOPS_SESSION_FILE"
	EnvSessionPassphrase = "FLEETOPS_SESSION_PASSPHRASE"
	EnvMapsAPIKey        = "FLEETOPS_MAPS_API_KEY"
)

// Config represents the structure of the configuration file.
type Config struct {
	API struct {
		BaseURL string            `yaml:"base_url" validate:"required,url"` // Default backend base URL
		Routes  map[string]string `yaml:"routes" validate:"dive,keys,startswith=/,endkeys,omitempty,url"`
		Timeout time.Duration     `yaml:"timeout" validate:"gte=0"` // Per request timeout
	} `yaml:"api"`

	Session struct {
		File       string `yaml:"file"`       // Encrypted session file; empty keeps the session in memory
		Passphrase string `yaml:"passphrase"` // Passphrase for the session file key
	} `yaml:"session"`

	Services struct {
		SessionRefresh struct {
			Enabled  bool          `yaml:"enabled"`
			Interval time.Duration `yaml:"interval" validate:"gte=0"`
			Window   time.Duration `yaml:"window" validate:"gte=0"` // Refresh once the token expires within this window
		} `yaml:"session_refresh"`

		DriverStatus struct {
			Enabled            bool          `yaml:"enabled"`
			Interval           time.Duration `yaml:"interval" validate:"gte=0"`
			StaleAfter         time.Duration `yaml:"stale_after" validate:"gte=0"`
			MovingThresholdKmh float64       `yaml:"moving_threshold_kmh" validate:"gte=0"`
			Workers            int           `yaml:"workers" validate:"gte=0,lte=32"`
		} `yaml:"driver_status"`

		Location struct {
			Enabled           bool          `yaml:"enabled"`
			Interval          time.Duration `yaml:"interval" validate:"gte=0"`
			Provider          string        `yaml:"provider" validate:"omitempty,oneof=static gps google"`
			GPSDevicePort     string        `yaml:"gps_device_port" validate:"required_if=Provider gps"`
			GPSDeviceBaudRate int           `yaml:"gps_baud_rate"`
			MapsAPIKey        string        `yaml:"maps_api_key" validate:"required_if=Provider google"`
			ModemIndex        int           `yaml:"modem_index"`
			Latitude          float64       `yaml:"latitude" validate:"gte=-90,lte=90"`
			Longitude         float64       `yaml:"longitude" validate:"gte=-180,lte=180"`
		} `yaml:"location"`
	} `yaml:"services"`

	Log struct {
		Format string `yaml:"format" validate:"omitempty,oneof=console json"`
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	} `yaml:"log"`
}

// LoadConfig loads the YAML configuration from the specified file, applies
// .env and environment overrides, fills defaults and validates the result.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()
	config.applyEnv()
	config.applyDefaults()
	config.Session.File = expandHome(config.Session.File)

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %s", filename, formatValidationErrors(err))
	}
	return &config, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvAPIURL, &c.API.BaseURL},
		{EnvSessionFile, &c.Session.File},
		{EnvSessionPassphrase, &c.Session.Passphrase},
		{EnvMapsAPIKey, &c.Services.Location.MapsAPIKey},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.target = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Services.SessionRefresh.Interval == 0 {
		c.Services.SessionRefresh.Interval = time.Minute
	}
	if c.Services.SessionRefresh.Window == 0 {
		c.Services.SessionRefresh.Window = 10 * time.Minute
	}
	if c.Services.DriverStatus.Interval == 0 {
		c.Services.DriverStatus.Interval = 60 * time.Second
	}
	if c.Services.DriverStatus.Workers == 0 {
		c.Services.DriverStatus.Workers = 2
	}
	if c.Services.Location.Interval == 0 {
		c.Services.Location.Interval = 30 * time.Second
	}
	if c.Services.Location.Provider == "" {
		c.Services.Location.Provider = "static"
	}
	if c.Services.Location.GPSDeviceBaudRate == 0 {
		c.Services.Location.GPSDeviceBaudRate = 9600
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func formatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var messages []string
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required", "required_if":
			messages = append(messages, fmt.Sprintf("%s is required", fieldError.Namespace()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", fieldError.Namespace(), fieldError.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fieldError.Namespace()))
		}
	}
	return strings.Join(messages, "; ")
}
