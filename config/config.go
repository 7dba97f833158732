package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port" env:"SERVER_PORT"`
	} `yaml:"server"`

	Gemini struct {
		ApiKey string `yaml:"apiKey" env:"GEMINI_API_KEY"`
		Model  string `yaml:"model" env:"GEMINI_MODEL"`
	} `yaml:"gemini"`

	Sheets struct {
		SpreadsheetId string `yaml:"spreadsheetId" env:"SHEETS_SPREADSHEET_ID"`
		SheetName     string `yaml:"sheetName" env:"SHEETS_SHEET_NAME"`
		// CredentialsJSON carries the service-account key inline (hosted
		// secret store); CredentialsFile points at a local key file. JSON
		// wins when both are set.
		CredentialsJSON string `yaml:"-" env:"GOOGLE_SERVICE_ACCOUNT_JSON"`
		CredentialsFile string `yaml:"credentialsFile" env:"GOOGLE_APPLICATION_CREDENTIALS"`
	} `yaml:"sheets"`

	Session struct {
		TTLMinutes int `yaml:"ttlMinutes" env:"SESSION_TTL_MINUTES"`
	} `yaml:"session"`
}

// LoadConfig reads the YAML config file and applies environment overrides.
// The file is optional; secrets normally arrive through the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Sheets.SheetName == "" {
		cfg.Sheets.SheetName = "Sheet1"
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 120
	}

	return &cfg, nil
}
