package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/random-duties/pkg/core/duties"
)

const (
	DefaultDutyDaysRRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"
	DefaultStoreDir      = "duties_data"
	DefaultSubjectPrefix = "Duty roster"

	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

// AvailabilityConfig selects where the availability table is read from.
// Exactly one of CSVPath or SheetID must be set.
type AvailabilityConfig struct {
	CSVPath  string `yaml:"csvPath,omitempty" validate:"required_without=SheetID,excluded_with=SheetID"`
	SheetID  string `yaml:"sheetID,omitempty" validate:"required_without=CSVPath"`
	SheetTab string `yaml:"sheetTab,omitempty" validate:"required_with=SheetID"`
}

// StoreConfig selects the history store
type StoreConfig struct {
	Driver      string `yaml:"driver,omitempty" validate:"omitempty,oneof=file postgres"`
	Dir         string `yaml:"dir,omitempty"`
	PostgresURL string `yaml:"postgresURL,omitempty" validate:"required_if=Driver postgres"`
}

// NotifyConfig configures the roster e-mail
type NotifyConfig struct {
	Recipients    []string `yaml:"recipients,omitempty" validate:"omitempty,dive,email"`
	SubjectPrefix string   `yaml:"subjectPrefix,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DutySize      int                `yaml:"dutySize" validate:"required,min=1"`
	WeekDays      map[string]int     `yaml:"weekDays" validate:"required,min=1,dive,keys,required,endkeys,min=0"`
	DutyDaysRRule string             `yaml:"dutyDaysRRule,omitempty"`
	Availability  AvailabilityConfig `yaml:"availability"`
	Store         StoreConfig        `yaml:"store"`
	Notify        NotifyConfig       `yaml:"notify"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// DutyConfig returns the scheduler configuration
func (c *Config) DutyConfig() duties.Config {
	return duties.Config{DutySize: c.DutySize}
}

// WeekDayIndex returns a copy of the configured week days
func (c *Config) WeekDayIndex() duties.WeekDayIndex {
	return duties.WeekDayIndex(c.WeekDays).Clone()
}

// UsesGoogle reports whether any configured integration needs Google OAuth
func (c *Config) UsesGoogle() bool {
	return c.Availability.SheetID != "" || len(c.Notify.Recipients) > 0
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "duties_config.test.yaml" before "duties_config.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DutyDaysRRule == "" {
		cfg.DutyDaysRRule = DefaultDutyDaysRRule
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverFile
	}
	if cfg.Store.Driver == StoreDriverFile && cfg.Store.Dir == "" {
		cfg.Store.Dir = DefaultStoreDir
	}
	if cfg.Notify.SubjectPrefix == "" {
		cfg.Notify.SubjectPrefix = DefaultSubjectPrefix
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.DutyDaysRRule != "" {
		if _, err := rrule.StrToRRule(cfg.DutyDaysRRule); err != nil {
			return fmt.Errorf("invalid rrule in dutyDaysRRule: %w", err)
		}
	}

	return nil
}

// findConfigFile prefers the environment specific file name
func findConfigFile(env string) (string, error) {
	var names []string
	if env != "" {
		names = append(names, "duties_config."+env+".yaml")
	}
	names = append(names, "duties_config.yaml")

	return findFile(names)
}
