package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"paysheet/timesheet"
)

const (
	KeyImportHeaderRow = "import.header_row"
	KeyImportYear      = "import.year"
	KeyCheckTolerance  = "check.duration_tolerance_hours"
	KeyCheckCorrected  = "check.use_corrected_end_for_mismatch"
	KeyPeriods         = "periods"
	KeyPositions       = "positions"
)

type Config struct {
	Periods   map[string]PeriodConfig   `mapstructure:"periods" validate:"required,min=1"`
	Positions map[string]PositionConfig `mapstructure:"positions" validate:"required,min=1"`
	Import    ImportConfig              `mapstructure:"import"`
	Check     CheckConfig               `mapstructure:"check"`
}

// PeriodConfig declares when a recurring pay period ends within a year.
type PeriodConfig struct {
	EndMonth int `mapstructure:"end_month" validate:"required,min=1,max=12"`
	EndDay   int `mapstructure:"end_day" validate:"required,min=1,max=31"`
}

// PositionConfig lists the columns a role must fill in and must leave blank.
type PositionConfig struct {
	Required  []string `mapstructure:"required"`
	Forbidden []string `mapstructure:"forbidden"`
}

type ImportConfig struct {
	// HeaderRow is the 1-based sheet row holding the column headings.
	HeaderRow int `mapstructure:"header_row" validate:"min=1"`
	// Year is the fallback reporting year when the source filename carries
	// no year token and no --year flag is given.
	Year int `mapstructure:"year"`
}

type CheckConfig struct {
	// DurationToleranceHours is the allowed gap between the declared
	// duration and the start/end elapsed time before a mismatch is raised.
	DurationToleranceHours float64 `mapstructure:"duration_tolerance_hours" validate:"min=0"`
	// UseCorrectedEndForMismatch controls whether the duration-mismatch
	// comparison uses the PM-corrected end time or the end time as written.
	UseCorrectedEndForMismatch bool `mapstructure:"use_corrected_end_for_mismatch"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# paysheet configuration
import:
  header_row: 2
  year: 0 # 0 = take the year from the source filename

check:
  duration_tolerance_hours: 0.1
  use_corrected_end_for_mismatch: true

periods:
  "Pay Period 1":
    end_month: 1
    end_day: 15
  "Pay Period 2":
    end_month: 1
    end_day: 31

positions:
  "Tutor":
    required: ["Last Name", "First Name", "Class Tutored", "Month", "Day", "Start Time", "End Time", "Duration"]
    forbidden: []
  "Learning Strategist":
    required: ["Last Name", "First Name", "Month", "Day", "Start Time", "End Time", "Duration"]
    forbidden: []
  "Coordinator":
    required: ["Month", "Day", "Start Time", "End Time", "Duration"]
    forbidden: ["Last Name", "First Name", "Class Tutored"]
`
}

// PeriodTable converts the period section into domain values keyed by the
// canonical period key.
func (c *Config) PeriodTable() map[string]timesheet.Period {
	periods := make(map[string]timesheet.Period, len(c.Periods))
	for name, period := range c.Periods {
		periods[timesheet.PeriodKey(name)] = timesheet.Period{
			Name:     name,
			EndMonth: period.EndMonth,
			EndDay:   period.EndDay,
		}
	}
	return periods
}

// Policies converts the position section into domain values keyed by the
// lowercased role name.
func (c *Config) Policies() map[string]timesheet.RolePolicy {
	policies := make(map[string]timesheet.RolePolicy, len(c.Positions))
	for name, position := range c.Positions {
		policies[strings.ToLower(strings.TrimSpace(name))] = timesheet.RolePolicy{
			Required:  position.Required,
			Forbidden: position.Forbidden,
		}
	}
	return policies
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validatePositions(cfg.Positions); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyImportHeaderRow, 2)
	v.SetDefault(KeyImportYear, 0)
	v.SetDefault(KeyCheckTolerance, 0.1)
	v.SetDefault(KeyCheckCorrected, true)
}

func validatePositions(positions map[string]PositionConfig) error {
	known := make(map[string]bool, 10)
	for _, name := range timesheet.FieldNames() {
		known[name] = true
	}

	seen := make(map[string]string, len(positions))
	for name, position := range positions {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("validation failed: position name must not be blank")
		}
		key := strings.ToLower(trimmed)
		if previous, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: positions %q and %q differ only in case", previous, name)
		}
		seen[key] = name

		for _, field := range position.Required {
			if !known[field] {
				return fmt.Errorf("validation failed: position %q requires unknown column %q", name, field)
			}
		}
		for _, field := range position.Forbidden {
			if !known[field] {
				return fmt.Errorf("validation failed: position %q forbids unknown column %q", name, field)
			}
			for _, required := range position.Required {
				if field == required {
					return fmt.Errorf("validation failed: position %q both requires and forbids column %q", name, field)
				}
			}
		}
	}
	return nil
}
