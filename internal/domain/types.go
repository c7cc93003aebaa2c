package domain

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkbook   = "Magical Power Spreadsheet.xlsx"
	DefaultPowerLevel = 1000.0
)

type Config struct {
	Workbook string `yaml:"workbook"`
	// DefaultPowerLevel is the value the power level input starts with.
	DefaultPowerLevel float64 `yaml:"default_power_level"`
	// OutputDir is where exported tables go when no explicit path is given.
	// Relative paths are resolved against the app root.
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
	// Color is one of "auto", "always", "never".
	Color   string  `yaml:"color"`
	Sheets  Sheets  `yaml:"sheets"`
	Columns Columns `yaml:"columns"`
}

type Sheets struct {
	Stats  string `yaml:"stats"`
	Powers string `yaml:"powers"`
}

type Columns struct {
	StatName    string `yaml:"stat_name"`
	Multiplier  string `yaml:"multiplier"`
	Color       string `yaml:"color"`
	PowerName   string `yaml:"power_name"`
	UniqueBonus string `yaml:"unique_bonus"`
}

// Layout names the sheets and header labels the workbook loader looks for.
type Layout struct {
	Sheets  Sheets
	Columns Columns
}

func DefaultLayout() Layout {
	return Layout{
		Sheets: Sheets{
			Stats:  "Stat multipliers",
			Powers: "Powers",
		},
		Columns: Columns{
			StatName:    "Stat:",
			Multiplier:  "Base Stat Multiplier:",
			Color:       "Display Color",
			PowerName:   "Power Name",
			UniqueBonus: "Unique Power Bonus",
		},
	}
}

func DefaultConfig() Config {
	l := DefaultLayout()
	return Config{
		Workbook:          DefaultWorkbook,
		DefaultPowerLevel: DefaultPowerLevel,
		OutputDir:         "output",
		LogLevel:          "info",
		Color:             "auto",
		Sheets:            l.Sheets,
		Columns:           l.Columns,
	}
}

// Layout returns the configured layout with blank entries filled from DefaultLayout.
func (c Config) Layout() Layout {
	def := DefaultLayout()
	pick := func(v, fallback string) string {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
		return fallback
	}
	return Layout{
		Sheets: Sheets{
			Stats:  pick(c.Sheets.Stats, def.Sheets.Stats),
			Powers: pick(c.Sheets.Powers, def.Sheets.Powers),
		},
		Columns: Columns{
			StatName:    pick(c.Columns.StatName, def.Columns.StatName),
			Multiplier:  pick(c.Columns.Multiplier, def.Columns.Multiplier),
			Color:       pick(c.Columns.Color, def.Columns.Color),
			PowerName:   pick(c.Columns.PowerName, def.Columns.PowerName),
			UniqueBonus: pick(c.Columns.UniqueBonus, def.Columns.UniqueBonus),
		},
	}
}

func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value != nil && value.Kind == yaml.MappingNode {
		allowed := map[string]struct{}{
			"workbook":            {},
			"default_power_level": {},
			"output_dir":          {},
			"log_level":           {},
			"color":               {},
			"sheets":              {},
			"columns":             {},
		}

		for i := 0; i+1 < len(value.Content); i += 2 {
			k := value.Content[i]
			if k.Kind != yaml.ScalarNode {
				continue
			}
			if _, ok := allowed[k.Value]; !ok {
				return fmt.Errorf("config: unsupported key %q", k.Value)
			}
		}
	}

	// Decode on top of the receiver so fields absent from the file keep their defaults.
	type raw Config
	tmp := raw(*c)
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*c = Config(tmp)
	return nil
}

// Validate checks values that yaml cannot constrain on its own.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Color)) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be one of auto, always, never; got %q", c.Color)
	}
	if strings.TrimSpace(c.Workbook) == "" {
		return fmt.Errorf("config: workbook must not be empty")
	}
	return nil
}
